package service

import (
	"context"
	"errors"
	"time"

	"github.com/pedropoiani/SimplesCaixa/internal/dto"
	"github.com/pedropoiani/SimplesCaixa/internal/model"
	"github.com/pedropoiani/SimplesCaixa/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSubscricaoNaoEncontrada = errors.New("subscrição não encontrada")

// PushService manages device subscriptions. Delivery itself happens in the
// worker pool; this service only owns registration and preferences.
type PushService interface {
	Subscribe(ctx context.Context, req dto.SubscribePushRequest) (*dto.PushSubscriptionResponse, error)
	Listar(ctx context.Context) ([]dto.PushSubscriptionResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarPushRequest) (*dto.PushSubscriptionResponse, error)
	Remover(ctx context.Context, id uuid.UUID) error
}

type pushService struct {
	repo repository.PushRepository
}

func NewPushService(repo repository.PushRepository) PushService {
	return &pushService{repo: repo}
}

func (s *pushService) Subscribe(ctx context.Context, req dto.SubscribePushRequest) (*dto.PushSubscriptionResponse, error) {
	sub := &model.PushSubscription{
		ID:                    uuid.New(),
		Endpoint:              req.Endpoint,
		P256dh:                req.P256dh,
		Auth:                  req.Auth,
		NomeDispositivo:       req.NomeDispositivo,
		Ativo:                 true,
		NotificarSangria:      true,
		NotificarAbertura:     true,
		NotificarFechamento:   true,
		NotificarResumoDiario: true,
	}
	if err := s.repo.Upsert(ctx, sub); err != nil {
		return nil, colaborador(err)
	}
	return pushToResponse(sub), nil
}

func (s *pushService) Listar(ctx context.Context) ([]dto.PushSubscriptionResponse, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, colaborador(err)
	}
	out := make([]dto.PushSubscriptionResponse, 0, len(subs))
	for i := range subs {
		out = append(out, *pushToResponse(&subs[i]))
	}
	return out, nil
}

func (s *pushService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarPushRequest) (*dto.PushSubscriptionResponse, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscricaoNaoEncontrada
	}
	if err != nil {
		return nil, colaborador(err)
	}

	if req.Ativo != nil {
		sub.Ativo = *req.Ativo
	}
	if req.NotificarSangria != nil {
		sub.NotificarSangria = *req.NotificarSangria
	}
	if req.NotificarAbertura != nil {
		sub.NotificarAbertura = *req.NotificarAbertura
	}
	if req.NotificarFechamento != nil {
		sub.NotificarFechamento = *req.NotificarFechamento
	}
	if req.NotificarResumoDiario != nil {
		sub.NotificarResumoDiario = *req.NotificarResumoDiario
	}

	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, colaborador(err)
	}
	return pushToResponse(sub), nil
}

func (s *pushService) Remover(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSubscricaoNaoEncontrada
	} else if err != nil {
		return colaborador(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return colaborador(err)
	}
	return nil
}

func pushToResponse(s *model.PushSubscription) *dto.PushSubscriptionResponse {
	return &dto.PushSubscriptionResponse{
		ID:                    s.ID.String(),
		NomeDispositivo:       s.NomeDispositivo,
		Ativo:                 s.Ativo,
		NotificarSangria:      s.NotificarSangria,
		NotificarAbertura:     s.NotificarAbertura,
		NotificarFechamento:   s.NotificarFechamento,
		NotificarResumoDiario: s.NotificarResumoDiario,
		CreatedAt:             s.CreatedAt.Format(time.RFC3339),
	}
}
