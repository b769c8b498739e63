package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frozenshop/internal/config"
	"frozenshop/internal/infra"
	"frozenshop/internal/repository"
	"frozenshop/internal/router"
	"frozenshop/internal/service"
	"frozenshop/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev: pretty, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.Migrations)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailBreaker := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg, mailBreaker)
	if !mailer.Enabled() {
		log.Warn().Msg("SMTP_HOST not set: order mails will be skipped")
	}
	receipts := infra.NewReceiptRenderer(cfg.PDFStoragePath)
	dispatcher := worker.NewDispatcher(rdb)

	deps := router.Deps{MailBreaker: mailer.Breaker(), Dispatcher: dispatcher}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		publisher := infra.NewOrderEventPublisher(infra.NewKafkaWriter(brokers, cfg.KafkaOrderTopic))
		defer publisher.Close()
		deps.Publisher = publisher
		log.Info().Strs("brokers", brokers).Str("topic", cfg.KafkaOrderTopic).Msg("order events enabled")
	}

	settingsSvc := service.NewSettingsService(repository.NewSettingRepository(db))
	workerHandlers := &worker.WorkerHandlers{
		OrderMail: worker.NewOrderMailWorker(repository.NewOrderRepository(db), settingsSvc, mailer, receipts, cfg.PublicBaseURL),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)
	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		RDB:     rdb,
		Breaker: mailBreaker,
		Queues:  []string{worker.QueueOrderMail},
	})

	r := router.New(cfg, db, rdb, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("frozenshop backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
