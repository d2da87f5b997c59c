package worker

// resumo_cron.go
// Background goroutine that sends the end-of-day summary: once per day, after
// the cutoff hour, it renders the daily PDF and enqueues an email plus a push
// notification. A Redis SETNX key makes the send idempotent across restarts
// and across multiple server instances.

import (
	"context"
	"fmt"
	"time"

	"github.com/pedropoiani/SimplesCaixa/internal/infra"
	"github.com/pedropoiani/SimplesCaixa/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	resumoTickInterval = time.Minute
	resumoCutoffHour   = 22 // send after 22:00 local time
	resumoSentKeyTTL   = 48 * time.Hour
)

// ResumoCronConfig holds all dependencies for the daily summary goroutine.
type ResumoCronConfig struct {
	Relatorios     service.RelatorioService
	Configuracao   service.ConfiguracaoService
	Clock          service.Clock
	Dispatcher     *Dispatcher
	RDB            *redis.Client
	PDFStoragePath string
	EmailTo        string
}

// StartResumoCron launches the daily summary goroutine. It respects the
// context for graceful shutdown.
func StartResumoCron(ctx context.Context, cfg ResumoCronConfig) {
	go func() {
		ticker := time.NewTicker(resumoTickInterval)
		defer ticker.Stop()

		log.Info().Msg("resumo_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("resumo_cron: shutting down")
				return
			case <-ticker.C:
				tentarEnviarResumo(ctx, cfg)
			}
		}
	}()
}

func tentarEnviarResumo(ctx context.Context, cfg ResumoCronConfig) {
	agora := cfg.Clock.Now()
	if agora.Hour() < resumoCutoffHour {
		return
	}

	// SETNX claims today's send. Whoever wins the race does the work.
	key := "resumo_diario:enviado:" + agora.Format("2006-01-02")
	ok, err := cfg.RDB.SetNX(ctx, key, "1", resumoSentKeyTTL).Result()
	if err != nil {
		log.Error().Err(err).Msg("resumo_cron: failed to claim daily send")
		return
	}
	if !ok {
		return // already sent today
	}

	resumo, err := cfg.Relatorios.ResumoDiario(ctx, agora)
	if err != nil {
		log.Error().Err(err).Msg("resumo_cron: failed to build daily summary")
		cfg.RDB.Del(ctx, key) // release the claim so the next tick retries
		return
	}

	config, err := cfg.Configuracao.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("resumo_cron: failed to load store config")
		cfg.RDB.Del(ctx, key)
		return
	}

	buf, err := infra.GerarResumoDiarioPDF(config.NomeLoja, resumo)
	if err != nil {
		log.Error().Err(err).Msg("resumo_cron: failed to render PDF")
		cfg.RDB.Del(ctx, key)
		return
	}
	pdfPath, err := infra.SalvarPDF(buf, cfg.PDFStoragePath, "resumo_"+resumo.Data+".pdf")
	if err != nil {
		log.Error().Err(err).Msg("resumo_cron: failed to persist PDF")
		cfg.RDB.Del(ctx, key)
		return
	}

	if cfg.EmailTo != "" {
		err = cfg.Dispatcher.EnqueueEmail(ctx, EmailJobPayload{
			ToEmail: cfg.EmailTo,
			Subject: fmt.Sprintf("Resumo do caixa — %s", resumo.Data),
			Body: fmt.Sprintf(
				"Resumo do dia %s\n\nTotal de vendas: R$ %s\nSaldo final em dinheiro: R$ %s\n\nO relatório completo segue em anexo.",
				resumo.Data, resumo.TotalVendas.StringFixed(2), resumo.SaldoFinalDinheiro.StringFixed(2)),
			PDFPath: pdfPath,
		})
		if err != nil {
			log.Error().Err(err).Msg("resumo_cron: failed to enqueue email")
		}
	}

	err = cfg.Dispatcher.EnqueuePush(ctx, PushJobPayload{
		Evento: EventoResumoDiario,
		Titulo: "Resumo do dia " + resumo.Data,
		Corpo:  fmt.Sprintf("Vendas: R$ %s", resumo.TotalVendas.StringFixed(2)),
	})
	if err != nil {
		log.Error().Err(err).Msg("resumo_cron: failed to enqueue push")
	}

	log.Info().Str("data", resumo.Data).Msg("resumo_cron: daily summary dispatched")
}
