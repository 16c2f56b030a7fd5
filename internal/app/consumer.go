package app

import (
	"go-leave/internal/bootstrap"
	"go-leave/internal/config"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"
	"go-leave/internal/notification"
	"go-leave/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer turns leave lifecycle events into inbox notifications until
// SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	defer rdb.Close()

	notificationService := notification.NewService(
		notification.NewRedisStore(rdb, cfg.NotificationMaxItems),
		notification.WithLogger(logger),
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.LeaveLifecycleTopic,
		GroupID:        cfg.KafkaConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := bootstrap.SignalContext()
	defer stop()

	consumer.ConsumeLeaveLifecycle(ctx, reader, notificationService, logger)

	logger.Info("consumer shutting down")
	return nil
}
