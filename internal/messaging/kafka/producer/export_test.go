package producer

import (
	"context"

	"go-storefront/internal/outbox"

	"go.uber.org/zap"
)

func ProcessPendingEvents(ctx context.Context, repo outbox.Repository, writer MessageWriter) (int, error) {
	return processPendingEvents(ctx, repo, writer, zap.NewNop())
}
