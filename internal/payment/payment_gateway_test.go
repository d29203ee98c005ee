package payment_test

import (
	"errors"
	"net/http"
	"testing"

	"go-storefront/internal/payment"

	midtransgo "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnap struct {
	got  *snap.Request
	resp *snap.Response
	err  *midtransgo.Error
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtransgo.Error) {
	f.got = req
	return f.resp, f.err
}

func TestNewGateway_DisabledWithoutKey(t *testing.T) {
	assert.Nil(t, payment.NewGateway("", false, nil))
	assert.NotNil(t, payment.NewGateway("SB-Mid-server-x", false, nil))
}

func TestGateway_CreateSession(t *testing.T) {
	t.Run("success_with_items", func(t *testing.T) {
		fake := &fakeSnap{resp: &snap.Response{Token: "snap-1", RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-1"}}
		gw := payment.NewGatewayWithClient(fake)

		res, err := gw.CreateSession(&payment.SessionRequest{
			GatewayOrderID: "SF-1001_1700000000",
			Amount:         decimal.NewFromInt(1300),
			Customer:       &payment.Customer{Name: "Asha Rao Kulkarni", Phone: "0812345678"},
			Items: []payment.Item{
				{ID: "p-candle", Name: "Candle", Price: decimal.NewFromInt(500), Quantity: 2},
				{ID: "p-soap", Name: "Soap", Price: decimal.NewFromInt(300), Quantity: 1},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "snap-1", res.Token)

		require.NotNil(t, fake.got)
		assert.Equal(t, "SF-1001_1700000000", fake.got.TransactionDetails.OrderID)
		assert.Equal(t, int64(1300), fake.got.TransactionDetails.GrossAmt)
		require.NotNil(t, fake.got.Items)
		assert.Len(t, *fake.got.Items, 2)
		assert.Equal(t, "Asha Rao", fake.got.CustomerDetail.FName)
		assert.Equal(t, "Kulkarni", fake.got.CustomerDetail.LName)
	})

	t.Run("items_dropped_when_sum_differs", func(t *testing.T) {
		fake := &fakeSnap{resp: &snap.Response{Token: "snap-2"}}
		gw := payment.NewGatewayWithClient(fake)

		_, err := gw.CreateSession(&payment.SessionRequest{
			GatewayOrderID: "SF-1002_1",
			Amount:         decimal.NewFromInt(1500),
			Items:          []payment.Item{{ID: "p-soap", Price: decimal.NewFromInt(300), Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Nil(t, fake.got.Items)
		assert.Nil(t, fake.got.CustomerDetail)
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		fake := &fakeSnap{}
		gw := payment.NewGatewayWithClient(fake)

		_, err := gw.CreateSession(&payment.SessionRequest{GatewayOrderID: "x", Amount: decimal.Zero})
		assert.ErrorIs(t, err, payment.ErrInvalidAmount)
		assert.Nil(t, fake.got)
	})

	t.Run("gateway_error", func(t *testing.T) {
		fake := &fakeSnap{err: &midtransgo.Error{Message: "unauthorized", StatusCode: http.StatusUnauthorized, RawError: errors.New("401")}}
		gw := payment.NewGatewayWithClient(fake)

		_, err := gw.CreateSession(&payment.SessionRequest{GatewayOrderID: "x", Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, payment.ErrGatewayFailed)
	})
}
