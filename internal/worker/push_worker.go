package worker

// push_worker.go
// Processes notification jobs from QueuePush: fans one event out to every
// active subscription whose preferences opt into that event. Endpoints that
// report themselves gone (404/410) are deactivated so they stop receiving.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/pedropoiani/SimplesCaixa/internal/infra"
	"github.com/pedropoiani/SimplesCaixa/internal/model"
	"github.com/pedropoiani/SimplesCaixa/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Push event names. Each maps to a per-subscription preference flag.
const (
	EventoAbertura     = "abertura"
	EventoFechamento   = "fechamento"
	EventoSangria      = "sangria"
	EventoResumoDiario = "resumo_diario"
)

// PushJobPayload is the job envelope sent to QueuePush.
type PushJobPayload struct {
	Evento string `json:"evento"`
	Titulo string `json:"titulo"`
	Corpo  string `json:"corpo"`
}

// PushWorker delivers one event to all interested subscriptions.
type PushWorker struct {
	pushRepo   repository.PushRepository
	pushClient *infra.PushClient
	rdb        *redis.Client
}

func NewPushWorker(pushRepo repository.PushRepository, pushClient *infra.PushClient, rdb *redis.Client) *PushWorker {
	return &PushWorker{pushRepo: pushRepo, pushClient: pushClient, rdb: rdb}
}

// Process fans the event out. Per-endpoint failures are logged and retried
// twice with backoff; a delivery that still fails is dropped (the next event
// will try the endpoint again), except gateway-wide failures which go to the
// DLQ so the whole event can be replayed.
func (w *PushWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload PushJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("push_worker: invalid payload")
		return
	}

	subs, err := w.pushRepo.ListAtivas(ctx)
	if err != nil {
		log.Error().Err(err).Msg("push_worker: failed to list subscriptions")
		SendToDLQ(ctx, w.rdb, QueuePush, "push", raw, "list subscriptions: "+err.Error(), 1)
		return
	}

	entregues := 0
	for i := range subs {
		sub := &subs[i]
		if !subscricaoAceita(sub, payload.Evento) {
			continue
		}

		err := withRetry(ctx, 3, func() error {
			return w.pushClient.Send(ctx, sub.Endpoint, infra.PushPayload{
				Titulo: payload.Titulo,
				Corpo:  payload.Corpo,
				Tag:    payload.Evento,
			})
		})

		switch {
		case errors.Is(err, infra.ErrSubscriptionGone):
			log.Info().Str("endpoint", sub.Endpoint).Msg("push_worker: subscription gone, deactivating")
			if derr := w.pushRepo.DeactivateByEndpoint(ctx, sub.Endpoint); derr != nil {
				log.Error().Err(derr).Msg("push_worker: failed to deactivate subscription")
			}
		case errors.Is(err, infra.ErrCircuitOpen):
			log.Warn().Msg("push_worker: circuit breaker open, requeueing event")
			SendToDLQ(ctx, w.rdb, QueuePush, "push", raw, "circuit breaker open", 3)
			return
		case err != nil:
			log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("push_worker: delivery failed")
		default:
			entregues++
		}
	}

	log.Info().
		Str("evento", payload.Evento).
		Int("entregues", entregues).
		Int("subscricoes", len(subs)).
		Msg("push_worker: event delivered")
}

func subscricaoAceita(sub *model.PushSubscription, evento string) bool {
	switch evento {
	case EventoAbertura:
		return sub.NotificarAbertura
	case EventoFechamento:
		return sub.NotificarFechamento
	case EventoSangria:
		return sub.NotificarSangria
	case EventoResumoDiario:
		return sub.NotificarResumoDiario
	default:
		return false
	}
}

// withRetry runs fn up to attempts times with exponential backoff (1s, 2s, …).
func withRetry(ctx context.Context, attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if errors.Is(err, infra.ErrSubscriptionGone) || errors.Is(err, infra.ErrCircuitOpen) {
			return err // not transient — retrying cannot help
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(1<<i) * time.Second):
			}
		}
	}
	return err
}
