package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-storefront/internal/cart"
	"go-storefront/internal/order"

	"go.uber.org/zap"
)

var errMalformed = errors.New("malformed message")

func handleDeleteCart(ctx context.Context, payload []byte, cartService cart.Service, logger *zap.Logger) error {
	var data order.DeleteCartPayload
	if err := json.Unmarshal(payload, &data); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if data.SessionID == "" {
		return fmt.Errorf("%w: missing session_id", errMalformed)
	}

	if err := cartService.Delete(ctx, data.SessionID); err != nil {
		return err
	}

	logger.Info("cart deleted", zap.String("session_id", data.SessionID))
	return nil
}
