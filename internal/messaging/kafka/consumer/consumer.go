// Package consumer applies order backend events to storefront sessions.
package consumer

import (
	"context"
	"errors"
	"time"

	"go-storefront/internal/cart"
	"go-storefront/internal/outbox"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const fetchRetryDelay = time.Second

// MessageReader is satisfied by *kafka.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// ConsumeMessages blocks until ctx is done. Messages that fail to apply are
// left uncommitted and come back after a rebalance; malformed ones are
// committed and dropped.
func ConsumeMessages(ctx context.Context, reader MessageReader, cartService cart.Service, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("cart.consumer")
	logger.Info("started consuming messages")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("stopped consuming messages")
				return
			}
			logger.Warn("fetch message failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		if err := handleMessage(ctx, msg, cartService, logger); err != nil {
			if !errors.Is(err, errMalformed) {
				logger.Error("handle message failed",
					zap.String("event_type", getHeader(msg.Headers, "event_type")),
					zap.Int64("offset", msg.Offset),
					zap.Error(err),
				)
				continue
			}
			logger.Warn("dropping malformed message", zap.Int64("offset", msg.Offset), zap.Error(err))
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error("commit message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func handleMessage(ctx context.Context, msg kafka.Message, cartService cart.Service, logger *zap.Logger) error {
	switch getHeader(msg.Headers, "event_type") {
	case outbox.EventDeleteCart:
		return handleDeleteCart(ctx, msg.Value, cartService, logger)
	default:
		// not ours
		return nil
	}
}

func getHeader(headers []kafka.Header, key string) string {
	for i := len(headers) - 1; i >= 0; i-- {
		if headers[i].Key == key {
			return string(headers[i].Value)
		}
	}
	return ""
}
