package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueuePush  = "jobs:push"
	QueueEmail = "jobs:email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
//
// It also satisfies service.Notifier: drawer events become push jobs, so the
// request path never waits on a push gateway.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueuePush pushes a notification job to Redis.
func (d *Dispatcher) EnqueuePush(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueuePush, "push", payload)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// ── service.Notifier ──────────────────────────────────────────────────────────

func (d *Dispatcher) NotificarAbertura(ctx context.Context, operador string, trocoInicial decimal.Decimal) {
	corpo := fmt.Sprintf("Troco inicial: R$ %s", trocoInicial.StringFixed(2))
	if operador != "" {
		corpo = fmt.Sprintf("Operador: %s — %s", operador, corpo)
	}
	d.notificar(ctx, EventoAbertura, "Caixa aberto", corpo)
}

func (d *Dispatcher) NotificarFechamento(ctx context.Context, totalVendas decimal.Decimal, diferenca *decimal.Decimal) {
	corpo := fmt.Sprintf("Entradas: R$ %s", totalVendas.StringFixed(2))
	if diferenca != nil {
		corpo += fmt.Sprintf(" — Diferença: R$ %s", diferenca.StringFixed(2))
	}
	d.notificar(ctx, EventoFechamento, "Caixa fechado", corpo)
}

func (d *Dispatcher) NotificarSangria(ctx context.Context, valor decimal.Decimal, descricao string) {
	corpo := fmt.Sprintf("Valor: R$ %s", valor.StringFixed(2))
	if descricao != "" {
		corpo += " — " + descricao
	}
	d.notificar(ctx, EventoSangria, "Sangria registrada", corpo)
}

func (d *Dispatcher) notificar(ctx context.Context, evento, titulo, corpo string) {
	payload := PushJobPayload{Evento: evento, Titulo: titulo, Corpo: corpo}
	if err := d.EnqueuePush(ctx, payload); err != nil {
		log.Error().Err(err).Str("evento", evento).Msg("dispatcher: failed to enqueue push job")
	}
}

// ── Pool ──────────────────────────────────────────────────────────────────────

// Handlers holds the per-queue job processors.
type Handlers struct {
	Push  *PushWorker
	Email *EmailWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers Handlers) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers Handlers) {
	queues := []string{QueuePush, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, result[0], result[1], handlers)
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, queue, raw string, handlers Handlers) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	switch queue {
	case QueuePush:
		if handlers.Push != nil {
			handlers.Push.Process(ctx, job.Payload)
			return
		}
	case QueueEmail:
		if handlers.Email != nil {
			handlers.Email.Process(ctx, job.Payload)
			return
		}
	}
	SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, "no handler registered", 0)
}
