package service

import (
	"context"
	"strings"

	"github.com/pedropoiani/SimplesCaixa/internal/dto"
	"github.com/pedropoiani/SimplesCaixa/internal/model"
	"github.com/pedropoiani/SimplesCaixa/internal/repository"
)

type ConfiguracaoService interface {
	Get(ctx context.Context) (*dto.ConfiguracaoResponse, error)
	Atualizar(ctx context.Context, req dto.AtualizarConfiguracaoRequest) (*dto.ConfiguracaoResponse, error)
}

type configuracaoService struct {
	repo repository.ConfiguracaoRepository
}

func NewConfiguracaoService(repo repository.ConfiguracaoRepository) ConfiguracaoService {
	return &configuracaoService{repo: repo}
}

func (s *configuracaoService) Get(ctx context.Context) (*dto.ConfiguracaoResponse, error) {
	config, err := s.repo.GetConfig(ctx)
	if err != nil {
		return nil, colaborador(err)
	}
	return configToResponse(config), nil
}

func (s *configuracaoService) Atualizar(ctx context.Context, req dto.AtualizarConfiguracaoRequest) (*dto.ConfiguracaoResponse, error) {
	config, err := s.repo.GetConfig(ctx)
	if err != nil {
		return nil, colaborador(err)
	}

	if req.NomeLoja != nil {
		config.NomeLoja = *req.NomeLoja
	}
	if req.Responsavel != nil {
		config.Responsavel = *req.Responsavel
	}
	if req.FormasPagamento != nil {
		formas := make([]string, 0, len(req.FormasPagamento))
		for _, f := range req.FormasPagamento {
			if f = strings.TrimSpace(f); f != "" {
				formas = append(formas, f)
			}
		}
		if len(formas) == 0 {
			return nil, ErrFormaPagamentoInvalida
		}
		config.FormasPagamento = strings.Join(formas, ",")
	}

	if err := s.repo.Update(ctx, config); err != nil {
		return nil, colaborador(err)
	}
	return configToResponse(config), nil
}

func configToResponse(c *model.Configuracao) *dto.ConfiguracaoResponse {
	return &dto.ConfiguracaoResponse{
		NomeLoja:        c.NomeLoja,
		Responsavel:     c.Responsavel,
		FormasPagamento: c.FormasPagamentoList(),
	}
}
