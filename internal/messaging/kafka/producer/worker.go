// Package producer relays outbox events to Kafka.
package producer

import (
	"context"
	"time"

	"go-storefront/internal/outbox"

	"go.uber.org/zap"
)

const batchSize = 10

// ProcessOutboxEvents polls the outbox every interval until ctx is done.
func ProcessOutboxEvents(ctx context.Context, repo outbox.Repository, writer MessageWriter, interval time.Duration, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("outbox.worker")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("outbox processor started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox processor stopped")
			return
		case <-ticker.C:
			if _, err := processPendingEvents(ctx, repo, writer, logger); err != nil {
				logger.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

// processPendingEvents publishes one batch and reports how many were sent.
func processPendingEvents(ctx context.Context, repo outbox.Repository, writer MessageWriter, logger *zap.Logger) (int, error) {
	events, err := repo.ListPending(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	if len(events) == 0 {
		return 0, nil
	}

	logger.Debug("processing pending events", zap.Int("count", len(events)))

	sent := 0
	for _, event := range events {
		log := logger.With(zap.String("event_id", event.ID), zap.String("event_type", event.EventType))

		if err := publishEvent(ctx, writer, event); err != nil {
			log.Warn("publish event failed", zap.Int("attempts", event.Attempts+1), zap.Error(err))
			if err := repo.MarkFailed(ctx, event.ID); err != nil {
				log.Error("mark event failed", zap.Error(err))
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			log.Error("mark event sent failed", zap.Error(err))
			continue
		}

		sent++
		log.Info("event published")
	}

	return sent, nil
}
