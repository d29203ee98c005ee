package order_test

import (
	"context"
	"net/http"
	"testing"

	"go-storefront/internal/apiclient"
	orderMock "go-storefront/internal/mock/order"
	"go-storefront/internal/order"
	"go-storefront/internal/session"
	"go-storefront/internal/shared/kv"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newOrderService(t *testing.T) (order.Service, *orderMock.MockClient, *session.Store, string) {
	ctrl := gomock.NewController(t)
	client := orderMock.NewMockClient(ctrl)
	store := session.NewStore(session.StoreDeps{KV: kv.NewMemoryStore()})

	sid := session.NewID()
	_, err := store.Dispatch(context.Background(), sid, session.Identified{
		User:        session.User{ID: "u-1"},
		Credentials: apiclient.Credentials{AccessToken: "acc-1", RefreshToken: "ref-1"},
	})
	require.NoError(t, err)

	return order.NewService(order.Deps{Client: client, Store: store}), client, store, sid
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults_and_clamps_paging", func(t *testing.T) {
		svc, client, _, sid := newOrderService(t)
		client.EXPECT().
			GetMyOrders(gomock.Any(), gomock.Any(), order.ListQuery{Status: "PAID", Page: 1, Limit: 10}).
			DoAndReturn(func(_ context.Context, creds *apiclient.Credentials, _ order.ListQuery) (order.ListOrderResponse, error) {
				assert.Equal(t, "acc-1", creds.AccessToken)
				return order.ListOrderResponse{
					Orders: []order.OrderResponse{{ID: "o-1", TotalPrice: decimal.NewFromInt(1300)}},
					Total:  1,
				}, nil
			})

		orders, total, err := svc.List(ctx, sid, "PAID", 0, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
		assert.Equal(t, "o-1", orders[0].ID)
	})

	t.Run("empty_list_not_nil", func(t *testing.T) {
		svc, client, _, sid := newOrderService(t)
		client.EXPECT().GetMyOrders(gomock.Any(), gomock.Any(), gomock.Any()).Return(order.ListOrderResponse{}, nil)

		orders, _, err := svc.List(ctx, sid, "", 1, 10)
		require.NoError(t, err)
		assert.NotNil(t, orders)
	})

	t.Run("rotated_credentials_are_saved", func(t *testing.T) {
		svc, client, store, sid := newOrderService(t)
		client.EXPECT().GetMyOrders(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, creds *apiclient.Credentials, _ order.ListQuery) (order.ListOrderResponse, error) {
				creds.AccessToken = "acc-2"
				return order.ListOrderResponse{}, nil
			})

		_, _, err := svc.List(ctx, sid, "", 1, 10)
		require.NoError(t, err)

		st, err := store.Get(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, "acc-2", st.Auth.Credentials.AccessToken)
	})

	t.Run("expired_session_clears_auth", func(t *testing.T) {
		svc, client, store, sid := newOrderService(t)
		client.EXPECT().GetMyOrders(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(order.ListOrderResponse{}, apiclient.ErrSessionExpired)

		_, _, err := svc.List(ctx, sid, "", 1, 10)
		assert.ErrorIs(t, err, apiclient.ErrSessionExpired)

		st, err := store.Get(ctx, sid)
		require.NoError(t, err)
		assert.False(t, st.Auth.Identified())
	})
}

func TestOrderService_Detail(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, client, _, sid := newOrderService(t)
		client.EXPECT().GetOrderByID(gomock.Any(), gomock.Any(), "o-1").Return(order.OrderResponse{ID: "o-1"}, nil)

		res, err := svc.Detail(ctx, sid, "o-1")
		require.NoError(t, err)
		assert.Equal(t, "o-1", res.ID)
	})

	t.Run("not_found", func(t *testing.T) {
		svc, client, _, sid := newOrderService(t)
		client.EXPECT().GetOrderByID(gomock.Any(), gomock.Any(), "o-9").
			Return(order.OrderResponse{}, &apiclient.APIError{Status: http.StatusNotFound, Path: "/orders/o-9"})

		_, err := svc.Detail(ctx, sid, "o-9")
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})

	t.Run("invalid_id", func(t *testing.T) {
		svc, _, _, sid := newOrderService(t)
		_, err := svc.Detail(ctx, sid, "../admin")
		assert.ErrorIs(t, err, order.ErrInvalidOrderID)
	})
}

func TestOrderService_CancelAndRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel_success", func(t *testing.T) {
		svc, client, _, sid := newOrderService(t)
		client.EXPECT().CancelOrder(gomock.Any(), gomock.Any(), "o-1").Return(order.OrderResponse{ID: "o-1", Status: "CANCELLED"}, nil)

		res, err := svc.Cancel(ctx, sid, "o-1")
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", res.Status)
	})

	t.Run("cancel_conflict", func(t *testing.T) {
		svc, client, _, sid := newOrderService(t)
		client.EXPECT().CancelOrder(gomock.Any(), gomock.Any(), "o-1").
			Return(order.OrderResponse{}, &apiclient.APIError{Status: http.StatusConflict, Message: "already shipped"})

		_, err := svc.Cancel(ctx, sid, "o-1")
		assert.ErrorIs(t, err, order.ErrCannotCancel)
	})

	t.Run("refund_trims_reason", func(t *testing.T) {
		svc, client, _, sid := newOrderService(t)
		client.EXPECT().RequestRefund(gomock.Any(), gomock.Any(), "o-1", "damaged on arrival").
			Return(order.OrderResponse{ID: "o-1", PaymentStatus: "REFUND_REQUESTED"}, nil)

		res, err := svc.RequestRefund(ctx, sid, "o-1", order.RefundRequest{Reason: "  damaged on arrival "})
		require.NoError(t, err)
		assert.Equal(t, "REFUND_REQUESTED", res.PaymentStatus)
	})

	t.Run("refund_not_eligible", func(t *testing.T) {
		svc, client, _, sid := newOrderService(t)
		client.EXPECT().RequestRefund(gomock.Any(), gomock.Any(), "o-1", gomock.Any()).
			Return(order.OrderResponse{}, &apiclient.APIError{Status: http.StatusConflict})

		_, err := svc.RequestRefund(ctx, sid, "o-1", order.RefundRequest{Reason: "changed my mind"})
		assert.ErrorIs(t, err, order.ErrCannotRefund)
	})
}
