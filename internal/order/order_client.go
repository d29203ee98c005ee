package order

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"go-storefront/internal/apiclient"
)

// Client talks to the order backend on behalf of one visitor. creds are read
// and refreshed in place.
//
//go:generate mockgen -source=order_client.go -destination=../mock/order/order_client_mock.go -package=mock
type Client interface {
	CreateOrder(ctx context.Context, creds *apiclient.Credentials, req CreateOrderRequest) (CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, creds *apiclient.Credentials, req VerifyPaymentRequest) (OrderResponse, error)
	GetMyOrders(ctx context.Context, creds *apiclient.Credentials, q ListQuery) (ListOrderResponse, error)
	GetOrderByID(ctx context.Context, creds *apiclient.Credentials, orderID string) (OrderResponse, error)
	CancelOrder(ctx context.Context, creds *apiclient.Credentials, orderID string) (OrderResponse, error)
	RequestRefund(ctx context.Context, creds *apiclient.Credentials, orderID, reason string) (OrderResponse, error)
}

type client struct {
	api apiclient.Doer
}

func NewClient(api apiclient.Doer) Client {
	if api == nil {
		panic("api client cannot be nil")
	}
	return &client{api: api}
}

func (c *client) CreateOrder(ctx context.Context, creds *apiclient.Credentials, req CreateOrderRequest) (CreateOrderResponse, error) {
	var out CreateOrderResponse
	err := c.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/orders",
		Body:   req,
		Out:    &out,
		Creds:  creds,
	})
	return out, err
}

func (c *client) VerifyPayment(ctx context.Context, creds *apiclient.Credentials, req VerifyPaymentRequest) (OrderResponse, error) {
	var out OrderResponse
	err := c.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/orders/verify-payment",
		Body:   req,
		Out:    &out,
		Creds:  creds,
	})
	return out, err
}

func (c *client) GetMyOrders(ctx context.Context, creds *apiclient.Credentials, q ListQuery) (ListOrderResponse, error) {
	query := url.Values{}
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var out ListOrderResponse
	err := c.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/orders/my-orders",
		Query:  query,
		Out:    &out,
		Creds:  creds,
	})
	return out, err
}

func (c *client) GetOrderByID(ctx context.Context, creds *apiclient.Credentials, orderID string) (OrderResponse, error) {
	var out OrderResponse
	err := c.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/orders/" + url.PathEscape(orderID),
		Out:    &out,
		Creds:  creds,
	})
	return out, err
}

func (c *client) CancelOrder(ctx context.Context, creds *apiclient.Credentials, orderID string) (OrderResponse, error) {
	var out OrderResponse
	err := c.api.Do(ctx, apiclient.Request{
		Method: http.MethodPatch,
		Path:   "/orders/" + url.PathEscape(orderID) + "/cancel",
		Out:    &out,
		Creds:  creds,
	})
	return out, err
}

func (c *client) RequestRefund(ctx context.Context, creds *apiclient.Credentials, orderID, reason string) (OrderResponse, error) {
	var out OrderResponse
	err := c.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/orders/" + url.PathEscape(orderID) + "/refund",
		Body:   RefundRequest{Reason: reason},
		Out:    &out,
		Creds:  creds,
	})
	return out, err
}
