package app

import (
	"context"
	"errors"

	"go-leave/internal/audit"
	"go-leave/internal/balance"
	"go-leave/internal/bootstrap"
	"go-leave/internal/config"
	"go-leave/internal/jobs"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/messaging/kafka/producer"
	"go-leave/internal/observability"
	"go-leave/internal/shared/connection"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunWorker relays the outbox to kafka and processes background tasks
// until SIGINT or SIGTERM.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres(), 5)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	metrics := observability.NewMetrics()
	relay := producer.NewRelay(kafka.NewOutboxRepository(gormDB), kafkaWriter, metrics, cfg.OutboxPollInterval, logger)

	balanceService := balance.NewService(sqlDB, balance.NewRepository(gormDB),
		balance.WithSeedDefaultGrant(cfg.SeedDefaultGrant),
		balance.WithMetrics(metrics),
		balance.WithAuditLogger(audit.NewZapLogger(logger)),
		balance.WithLogger(logger),
	)
	yearReset := jobs.NewYearResetJob(balanceService, logger)
	worker := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Concurrency: cfg.WorkerConcurrency,
		Logger:      logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskYearReset, Handler: yearReset.Handle},
		},
	})

	ctx, stop := bootstrap.SignalContext()
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return relay.Run(ctx) })
	g.Go(func() error { return worker.Run(ctx) })

	err = g.Wait()
	logger.Info("worker shutting down")
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
