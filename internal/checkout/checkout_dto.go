package checkout

import (
	"go-storefront/internal/session"

	"github.com/shopspring/decimal"
)

// ==================== REQUEST STRUCTS ====================

type PlaceOrderRequest struct {
	PaymentMethod session.PaymentMethod `json:"paymentMethod" binding:"required"`
}

// ConfirmPaymentRequest carries the payment widget's success callback.
type ConfirmPaymentRequest struct {
	PaymentID      string `json:"paymentId" binding:"required,max=128"`
	Signature      string `json:"signature" binding:"max=512"`
	GatewayOrderID string `json:"gatewayOrderId" binding:"max=128"`
}

// FailPaymentRequest carries the widget's failure or cancel callback.
type FailPaymentRequest struct {
	Reason string `json:"reason" binding:"max=300"`
}

// ==================== RESPONSE STRUCTS ====================

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type CheckoutResponse struct {
	Stage         session.Stage           `json:"stage"`
	Attempt       int64                   `json:"attempt"`
	Address       *session.Address        `json:"address,omitempty"`
	PaymentMethod session.PaymentMethod   `json:"paymentMethod,omitempty"`
	Payment       *session.PaymentSession `json:"payment,omitempty"`
	Order         *session.ConfirmedOrder `json:"order,omitempty"`
	Failure       *session.Failure        `json:"failure,omitempty"`
	CartTotal     decimal.Decimal         `json:"cartTotal"`
	ItemCount     int                     `json:"itemCount"`
	Notifications []session.Notification  `json:"notifications"`
}

func toResponse(st session.State) CheckoutResponse {
	co := st.Checkout
	notes := st.UI.Notifications
	if notes == nil {
		notes = []session.Notification{}
	}
	return CheckoutResponse{
		Stage:         co.Outcome(),
		Attempt:       co.Attempt,
		Address:       co.Address,
		PaymentMethod: co.Method,
		Payment:       co.Payment,
		Order:         co.Order,
		Failure:       co.Failure,
		CartTotal:     st.Cart.Total,
		ItemCount:     st.Cart.Count(),
		Notifications: notes,
	}
}
