package order

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-storefront/internal/apiclient"
	"go-storefront/internal/session"

	"go.uber.org/zap"
)

//go:generate mockgen -source=order_service.go -destination=../mock/order/order_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, sessionID string, status string, page, limit int) ([]OrderResponse, int64, error)
	Detail(ctx context.Context, sessionID, orderID string) (OrderResponse, error)
	Cancel(ctx context.Context, sessionID, orderID string) (OrderResponse, error)
	RequestRefund(ctx context.Context, sessionID, orderID string, req RefundRequest) (OrderResponse, error)
}

type Deps struct {
	Client Client
	Store  *session.Store
	Logger *zap.Logger
}

type service struct {
	client Client
	store  *session.Store
	logger *zap.Logger
}

func NewService(deps Deps) Service {
	if deps.Client == nil {
		panic("order client cannot be nil")
	}
	if deps.Store == nil {
		panic("session store cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &service{
		client: deps.Client,
		store:  deps.Store,
		logger: deps.Logger.Named("order.service"),
	}
}

func (s *service) List(ctx context.Context, sessionID string, status string, page, limit int) ([]OrderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var res ListOrderResponse
	err := s.store.CallUpstream(ctx, sessionID, func(creds *apiclient.Credentials) error {
		var err error
		res, err = s.client.GetMyOrders(ctx, creds, ListQuery{Status: status, Page: page, Limit: limit})
		return err
	})
	if err != nil {
		s.logger.Warn("list orders failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, 0, err
	}

	if res.Orders == nil {
		res.Orders = []OrderResponse{}
	}
	return res.Orders, res.Total, nil
}

func (s *service) Detail(ctx context.Context, sessionID, orderID string) (OrderResponse, error) {
	if err := validateOrderID(orderID); err != nil {
		return OrderResponse{}, err
	}

	var res OrderResponse
	err := s.store.CallUpstream(ctx, sessionID, func(creds *apiclient.Credentials) error {
		var err error
		res, err = s.client.GetOrderByID(ctx, creds, orderID)
		return err
	})
	if err != nil {
		return OrderResponse{}, mapError(err, nil)
	}
	return res, nil
}

func (s *service) Cancel(ctx context.Context, sessionID, orderID string) (OrderResponse, error) {
	if err := validateOrderID(orderID); err != nil {
		return OrderResponse{}, err
	}
	logger := s.logger.With(zap.String("session_id", sessionID), zap.String("order_id", orderID))

	var res OrderResponse
	err := s.store.CallUpstream(ctx, sessionID, func(creds *apiclient.Credentials) error {
		var err error
		res, err = s.client.CancelOrder(ctx, creds, orderID)
		return err
	})
	if err != nil {
		logger.Warn("cancel order failed", zap.Error(err))
		return OrderResponse{}, mapError(err, ErrCannotCancel)
	}

	logger.Info("order cancelled")
	return res, nil
}

func (s *service) RequestRefund(ctx context.Context, sessionID, orderID string, req RefundRequest) (OrderResponse, error) {
	if err := validateOrderID(orderID); err != nil {
		return OrderResponse{}, err
	}
	logger := s.logger.With(zap.String("session_id", sessionID), zap.String("order_id", orderID))

	var res OrderResponse
	err := s.store.CallUpstream(ctx, sessionID, func(creds *apiclient.Credentials) error {
		var err error
		res, err = s.client.RequestRefund(ctx, creds, orderID, strings.TrimSpace(req.Reason))
		return err
	})
	if err != nil {
		logger.Warn("refund request failed", zap.Error(err))
		return OrderResponse{}, mapError(err, ErrCannotRefund)
	}

	logger.Info("refund requested")
	return res, nil
}

func validateOrderID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > 64 || strings.ContainsAny(id, "/?#") {
		return ErrInvalidOrderID
	}
	return nil
}

// mapError turns backend 404s into ErrOrderNotFound and 409s into conflict,
// when given. Everything else keeps the transport's mapping.
func mapError(err error, conflict error) error {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Status == http.StatusNotFound:
		return ErrOrderNotFound
	case apiErr.Status == http.StatusConflict && conflict != nil:
		return conflict
	}
	return err
}
