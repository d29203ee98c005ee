package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service records events for the relay worker to publish to Kafka.
//
//go:generate mockgen -source=outbox_service.go -destination=../mock/outbox/outbox_service_mock.go -package=mock
type Service interface {
	Publish(ctx context.Context, eventType, aggregateType, aggregateID string, payload any) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *zap.Logger) Service {
	if repo == nil {
		panic("outbox repository cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, logger: logger.Named("outbox.service"), now: time.Now}
}

func (s *service) Publish(ctx context.Context, eventType, aggregateType, aggregateID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", eventType, err)
	}

	e := Event{
		ID:            uuid.NewString(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       body,
		Status:        StatusPending,
		CreatedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("store outbox event failed",
			zap.String("event_type", eventType),
			zap.String("aggregate_id", aggregateID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Debug("outbox event stored", zap.String("event_id", e.ID), zap.String("event_type", eventType))
	return nil
}
