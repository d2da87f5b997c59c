package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pedropoiani/SimplesCaixa/internal/config"
	"github.com/pedropoiani/SimplesCaixa/internal/infra"
	"github.com/pedropoiani/SimplesCaixa/internal/repository"
	"github.com/pedropoiani/SimplesCaixa/internal/router"
	"github.com/pedropoiani/SimplesCaixa/internal/service"
	"github.com/pedropoiani/SimplesCaixa/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Synced clock: every lançamento is stamped with the reconciled hour
	sysClock, err := infra.NewSystemClock(cfg.TimeTimezone)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timezone")
	}
	clock := infra.NewSyncedClock(sysClock, cfg.TimeAPIURL, log.Logger)
	clock.StartSyncLoop(ctx, 30*time.Minute)

	// Worker pool for async tasks (push fan-out, daily summary email).
	// Handlers are wired here (composition root) so the pool has full access
	// to all infrastructure dependencies.
	pushCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	pushClient := infra.NewPushClient(pushCB)
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	pushRepo := repository.NewPushRepository(db)

	handlers := worker.Handlers{
		Push:  worker.NewPushWorker(pushRepo, pushClient, rdb),
		Email: worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	// End-of-day summary cron
	lancRepo := repository.NewLancamentoRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	configRepo := repository.NewConfiguracaoRepository(db)
	worker.StartResumoCron(ctx, worker.ResumoCronConfig{
		Relatorios:     service.NewRelatorioService(lancRepo, caixaRepo, clock),
		Configuracao:   service.NewConfiguracaoService(configRepo),
		Clock:          clock,
		Dispatcher:     dispatcher,
		RDB:            rdb,
		PDFStoragePath: cfg.PDFStoragePath,
		EmailTo:        cfg.ResumoEmailTo,
	})

	r := router.New(cfg, db, rdb, clock, pushCB, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("SimplesCaixa backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
