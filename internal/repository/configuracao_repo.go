package repository

import (
	"context"

	"github.com/pedropoiani/SimplesCaixa/internal/model"

	"gorm.io/gorm"
)

type ConfiguracaoRepository interface {
	// GetConfig returns the singleton configuration row, creating it with
	// defaults on first access.
	GetConfig(ctx context.Context) (*model.Configuracao, error)
	Update(ctx context.Context, c *model.Configuracao) error
}

type configuracaoRepo struct{ db *gorm.DB }

func NewConfiguracaoRepository(db *gorm.DB) ConfiguracaoRepository {
	return &configuracaoRepo{db: db}
}

func (r *configuracaoRepo) GetConfig(ctx context.Context) (*model.Configuracao, error) {
	var c model.Configuracao
	err := r.db.WithContext(ctx).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	c = model.Configuracao{
		NomeLoja:        "Minha Loja",
		Responsavel:     "Responsável",
		FormasPagamento: "Dinheiro,PIX,Cartão Débito,Cartão Crédito",
	}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *configuracaoRepo) Update(ctx context.Context, c *model.Configuracao) error {
	return r.db.WithContext(ctx).Save(c).Error
}
