package session_test

import (
	"fmt"
	"testing"
	"time"

	"go-storefront/internal/apiclient"
	"go-storefront/internal/cart/cartstate"
	"go-storefront/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineItem(id string, price int64, qty int32) cartstate.LineItem {
	return cartstate.LineItem{
		ProductID: id,
		Name:      "Product " + id,
		Price:     decimal.NewFromInt(price),
		Quantity:  qty,
	}
}

func testAddress() session.Address {
	return session.Address{
		FullName:   "Asha Rao",
		Phone:      "9876543210",
		Line1:      "12 MG Road",
		City:       "Bengaluru",
		State:      "KA",
		PostalCode: "560001",
		Country:    "IN",
	}
}

func reduceAll(t *testing.T, s session.State, actions ...session.Action) session.State {
	t.Helper()
	for _, a := range actions {
		var err error
		s, err = session.Reduce(s, a)
		require.NoError(t, err, "%T", a)
	}
	return s
}

func identified() session.Identified {
	return session.Identified{
		User:        session.User{ID: "u-1", Name: "Asha", Phone: "9876543210"},
		Credentials: apiclient.Credentials{AccessToken: "at", RefreshToken: "rt", CSRFToken: "csrf"},
	}
}

func TestReduce_Checkout(t *testing.T) {
	t.Run("empty_cart_goes_to_continue_shopping", func(t *testing.T) {
		s := reduceAll(t, session.Initial(), session.CheckoutBegan{})
		assert.Equal(t, session.StageContinueShopping, s.Checkout.Stage)
	})

	t.Run("cod_order_confirms_and_clears_cart", func(t *testing.T) {
		s := reduceAll(t, session.Initial(),
			session.ItemAdded{Item: lineItem("p1", 500, 2)},
			session.CheckoutBegan{},
		)
		assert.Equal(t, session.StageAddressEntry, s.Checkout.Stage)

		s = reduceAll(t, s, session.AddressSubmitted{Address: testAddress()})
		assert.Equal(t, session.StageIdentifyUser, s.Checkout.Stage)

		s = reduceAll(t, s, identified())
		assert.Equal(t, session.StagePaymentSelection, s.Checkout.Stage)

		s = reduceAll(t, s, session.OrderSubmitting{Method: session.PaymentCOD})
		assert.Equal(t, session.StageSubmitting, s.Checkout.Stage)
		attempt := s.Checkout.Attempt

		s = reduceAll(t, s, session.OrderCreated{
			Attempt: attempt,
			Order:   session.ConfirmedOrder{ID: "o-1", OrderNumber: "ORD-1", Total: decimal.NewFromInt(1000)},
		})
		assert.Equal(t, session.StageOrderConfirmed, s.Checkout.Stage)
		assert.Equal(t, "ORD-1", s.Checkout.Order.OrderNumber)
		assert.True(t, s.Cart.IsEmpty())
		assert.True(t, s.Cart.Total.IsZero())
	})

	t.Run("online_payment_waits_for_widget", func(t *testing.T) {
		s := reduceAll(t, session.Initial(),
			identified(),
			session.ItemAdded{Item: lineItem("p1", 500, 1)},
			session.CheckoutBegan{},
			session.AddressSubmitted{Address: testAddress()},
			session.OrderSubmitting{Method: session.PaymentOnline},
		)
		attempt := s.Checkout.Attempt

		s = reduceAll(t, s, session.OrderCreated{
			Attempt: attempt,
			Order:   session.ConfirmedOrder{ID: "o-1"},
			Payment: &session.PaymentSession{OrderID: "o-1", Token: "snap-1"},
		})
		assert.Equal(t, session.StageSubmitting, s.Checkout.Stage)
		assert.True(t, s.Checkout.AwaitingPayment())
		assert.False(t, s.Cart.IsEmpty())

		s = reduceAll(t, s, session.PaymentFailed{Attempt: attempt, Reason: "card declined"})
		assert.Equal(t, session.StagePaymentSelection, s.Checkout.Stage)
		assert.Equal(t, session.StageSubmissionFailed, s.Checkout.Outcome())
		assert.Equal(t, "card declined", s.Checkout.Failure.Reason)
		assert.Equal(t, 1, s.Cart.Count())
		require.NotNil(t, s.Checkout.Payment)
		assert.Equal(t, "o-1", s.Checkout.Payment.OrderID)

		s = reduceAll(t, s, session.OrderSubmitting{Method: session.PaymentOnline})
		retry := s.Checkout.Attempt
		assert.Greater(t, retry, attempt)
		assert.Nil(t, s.Checkout.Failure)

		s = reduceAll(t, s,
			session.PaymentSessionOpened{Attempt: retry, Payment: session.PaymentSession{OrderID: "o-1", Token: "snap-2"}},
			session.PaymentConfirmed{Attempt: retry, Order: session.ConfirmedOrder{ID: "o-1", Status: "PAID"}},
		)
		assert.Equal(t, session.StageOrderConfirmed, s.Checkout.Stage)
		assert.True(t, s.Cart.IsEmpty())
		assert.Nil(t, s.Checkout.Payment)
	})

	t.Run("order_failure_keeps_cart", func(t *testing.T) {
		s := reduceAll(t, session.Initial(),
			identified(),
			session.ItemAdded{Item: lineItem("p1", 500, 2)},
			session.ItemAdded{Item: lineItem("p2", 300, 1)},
			session.CheckoutBegan{},
			session.AddressSubmitted{Address: testAddress()},
			session.OrderSubmitting{Method: session.PaymentCOD},
		)

		s = reduceAll(t, s, session.OrderFailed{Attempt: s.Checkout.Attempt, Reason: "Product out of stock"})

		assert.Equal(t, session.StagePaymentSelection, s.Checkout.Stage)
		assert.Equal(t, session.StageSubmissionFailed, s.Checkout.Outcome())
		assert.Equal(t, "1300", s.Cart.Total.String())
		require.NotEmpty(t, s.UI.Notifications)
		assert.Equal(t, "Product out of stock", s.UI.Notifications[len(s.UI.Notifications)-1].Message)
	})

	t.Run("abandoned_attempt_ignores_late_response", func(t *testing.T) {
		s := reduceAll(t, session.Initial(),
			identified(),
			session.ItemAdded{Item: lineItem("p1", 500, 1)},
			session.CheckoutBegan{},
			session.AddressSubmitted{Address: testAddress()},
			session.OrderSubmitting{Method: session.PaymentCOD},
		)
		attempt := s.Checkout.Attempt

		s = reduceAll(t, s, session.CheckoutAbandoned{})
		assert.Equal(t, session.StageBrowsingCart, s.Checkout.Stage)

		after, err := session.Reduce(s, session.OrderCreated{Attempt: attempt})
		assert.ErrorIs(t, err, session.ErrStaleResponse)
		assert.Equal(t, s, after)
		assert.Equal(t, 1, after.Cart.Count())
	})

	t.Run("submit_requires_payment_selection", func(t *testing.T) {
		s := reduceAll(t, session.Initial(), session.ItemAdded{Item: lineItem("p1", 500, 1)})

		after, err := session.Reduce(s, session.OrderSubmitting{Method: session.PaymentCOD})
		assert.ErrorIs(t, err, session.ErrInvalidTransition)
		assert.Equal(t, s, after)
	})

	t.Run("begin_rejected_while_submitting", func(t *testing.T) {
		s := reduceAll(t, session.Initial(),
			identified(),
			session.ItemAdded{Item: lineItem("p1", 500, 1)},
			session.CheckoutBegan{},
			session.AddressSubmitted{Address: testAddress()},
			session.OrderSubmitting{Method: session.PaymentCOD},
		)
		_, err := session.Reduce(s, session.CheckoutBegan{})
		assert.ErrorIs(t, err, session.ErrInvalidTransition)
	})
}

func TestReduce_CartLockedWhileSubmitting(t *testing.T) {
	submitting := func(t *testing.T) session.State {
		return reduceAll(t, session.Initial(),
			identified(),
			session.ItemAdded{Item: lineItem("p1", 500, 1)},
			session.CheckoutBegan{},
			session.AddressSubmitted{Address: testAddress()},
			session.OrderSubmitting{Method: session.PaymentCOD},
		)
	}

	for name, action := range map[string]session.Action{
		"add":    session.ItemAdded{Item: lineItem("p2", 300, 1)},
		"update": session.QuantityUpdated{ProductID: "p1", Quantity: 3},
		"remove": session.ItemRemoved{ProductID: "p1"},
	} {
		t.Run(name+"_rejected", func(t *testing.T) {
			s := submitting(t)
			after, err := session.Reduce(s, action)
			require.ErrorIs(t, err, session.ErrCheckoutInProgress)
			assert.Equal(t, s.Cart, after.Cart)
		})
	}

	t.Run("cart_editable_again_after_confirmation", func(t *testing.T) {
		s := submitting(t)
		_, err := session.Reduce(s, session.ItemAdded{Item: lineItem("p2", 300, 1)})
		require.Error(t, err)

		s = reduceAll(t, s, session.OrderCreated{
			Attempt: s.Checkout.Attempt,
			Order:   session.ConfirmedOrder{ID: "o-1", Total: decimal.NewFromInt(500)},
		})
		assert.Equal(t, session.StageOrderConfirmed, s.Checkout.Stage)
		assert.True(t, s.Cart.IsEmpty())

		s = reduceAll(t, s, session.ItemAdded{Item: lineItem("p2", 300, 1)})
		assert.Equal(t, 1, s.Cart.Count())
	})
}

func TestReduce_IdentificationGate(t *testing.T) {
	t.Run("pending_cart_add_is_replayed_and_lands_on_checkout", func(t *testing.T) {
		item := lineItem("p1", 700, 1)
		s := reduceAll(t, session.Initial(),
			session.PendingCaptured{Action: session.PendingAction{Kind: session.PendingAddToCart, Item: &item}},
		)
		assert.True(t, s.Cart.IsEmpty())

		s = reduceAll(t, s, identified())

		assert.Nil(t, s.Pending)
		require.Equal(t, 1, s.Cart.Count())
		assert.Equal(t, "p1", s.Cart.Items[0].ProductID)
		assert.Equal(t, int32(1), s.Cart.Items[0].Quantity)
		assert.Equal(t, session.StageAddressEntry, s.Checkout.Stage)
		assert.True(t, s.Auth.Identified())
	})

	t.Run("pending_wishlist_add_is_left_for_caller", func(t *testing.T) {
		s := reduceAll(t, session.Initial(),
			session.PendingCaptured{Action: session.PendingAction{Kind: session.PendingWishlistAdd, ProductID: "p9"}},
			identified(),
		)
		require.NotNil(t, s.Pending)
		assert.Equal(t, "p9", s.Pending.ProductID)
		assert.Equal(t, session.StageBrowsingCart, s.Checkout.Stage)

		s = reduceAll(t, s, session.PendingCleared{})
		assert.Nil(t, s.Pending)
	})
}

func TestReduce_Auth(t *testing.T) {
	t.Run("expiry_clears_auth_but_keeps_cart", func(t *testing.T) {
		s := reduceAll(t, session.Initial(),
			identified(),
			session.ItemAdded{Item: lineItem("p1", 500, 1)},
			session.CheckoutBegan{},
			session.AddressSubmitted{Address: testAddress()},
			session.AuthExpired{At: time.Now()},
		)
		assert.False(t, s.Auth.Identified())
		assert.True(t, s.Auth.Credentials.Empty())
		assert.Equal(t, 1, s.Cart.Count())
		assert.Equal(t, session.StageIdentifyUser, s.Checkout.Stage)
	})

	t.Run("logout_clears_everything", func(t *testing.T) {
		s := reduceAll(t, session.Initial(),
			identified(),
			session.ItemAdded{Item: lineItem("p1", 500, 1)},
			session.CheckoutBegan{},
			session.LoggedOut{},
		)
		assert.False(t, s.Auth.Identified())
		assert.True(t, s.Cart.IsEmpty())
		assert.Equal(t, session.StageBrowsingCart, s.Checkout.Stage)
	})

	t.Run("refresh_replaces_credentials_only", func(t *testing.T) {
		s := reduceAll(t, session.Initial(),
			identified(),
			session.CredentialsRefreshed{Credentials: apiclient.Credentials{AccessToken: "at-2", RefreshToken: "rt-2"}},
		)
		assert.True(t, s.Auth.Identified())
		assert.Equal(t, "at-2", s.Auth.Credentials.AccessToken)
	})
}

func TestReduce_Notifications(t *testing.T) {
	s := session.Initial()
	for i := 0; i < 8; i++ {
		s = reduceAll(t, s, session.Notified{Notification: session.Notification{
			ID:      fmt.Sprintf("n-%d", i),
			Message: "hello",
		}})
	}
	require.Len(t, s.UI.Notifications, 5)
	assert.Equal(t, "n-3", s.UI.Notifications[0].ID)
	assert.Equal(t, "n-7", s.UI.Notifications[4].ID)

	s = reduceAll(t, s, session.NotificationDismissed{ID: "n-5"})
	assert.Len(t, s.UI.Notifications, 4)

	s = reduceAll(t, s, session.NotificationDismissed{ID: "unknown"})
	assert.Len(t, s.UI.Notifications, 4)
}

func TestReduce_DrawerDoesNotTouchItems(t *testing.T) {
	s := reduceAll(t, session.Initial(), session.ItemAdded{Item: lineItem("p1", 500, 1)})
	assert.True(t, s.Cart.IsOpen)

	s = reduceAll(t, s, session.DrawerClosed{})
	assert.False(t, s.Cart.IsOpen)
	assert.Equal(t, 1, s.Cart.Count())

	s = reduceAll(t, s, session.DrawerOpened{})
	assert.True(t, s.Cart.IsOpen)
}
