package app

import (
	"context"
	"time"

	"go-storefront/internal/config"
	"go-storefront/internal/messaging/kafka/producer"
	"go-storefront/internal/outbox"
	"go-storefront/internal/shared/connection"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const outboxPollInterval = 5 * time.Second

// RunWorker relays pending outbox events to kafka until ctx is cancelled.
func RunWorker(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger = logger.Named("worker")
	logger.Info("starting outbox processor")

	if cfg.Redis.Addr == "" || cfg.Kafka.Broker == "" {
		return errors.New("worker needs redis.addr and kafka.broker")
	}

	// 1. Connect to redis
	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, connectRetries, logger)
	if err != nil {
		return errors.Wrap(err, "connect redis")
	}
	defer rdb.Close()

	// 2. Setup Kafka writer
	writer, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.Kafka.EventsTopic, connectRetries, logger)
	if err != nil {
		return errors.Wrap(err, "connect kafka")
	}
	defer writer.Close()

	// 3. Run until shutdown
	producer.ProcessOutboxEvents(ctx, outbox.NewRepository(rdb), writer, outboxPollInterval, logger)

	logger.Info("outbox processor stopped")
	return nil
}
