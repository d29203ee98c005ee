package session

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stage string

const (
	StageBrowsingCart     Stage = "BROWSING_CART"
	StageContinueShopping Stage = "CONTINUE_SHOPPING"
	StageAddressEntry     Stage = "ADDRESS_ENTRY"
	StageIdentifyUser     Stage = "IDENTIFY_USER"
	StagePaymentSelection Stage = "PAYMENT_SELECTION"
	StageSubmitting       Stage = "SUBMITTING"
	StageOrderConfirmed   Stage = "ORDER_CONFIRMED"
	// StageSubmissionFailed is reported as the outcome of a failed attempt;
	// the flow itself sits in PAYMENT_SELECTION so the user can resubmit.
	StageSubmissionFailed Stage = "SUBMISSION_FAILED"
)

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "ONLINE"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentOnline
}

type Address struct {
	FullName   string `json:"fullName" validate:"required,min=2,max=100"`
	Phone      string `json:"phone" validate:"required,min=8,max=15,numeric"`
	Line1      string `json:"line1" validate:"required,max=200"`
	Line2      string `json:"line2,omitempty" validate:"max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"required,numeric,len=6"`
	Country    string `json:"country" validate:"omitempty,iso3166_1_alpha2"`
}

// PaymentSession is the gateway handle of an online order waiting for the
// payment widget.
type PaymentSession struct {
	OrderID     string          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Token       string          `json:"token"`
	RedirectURL string          `json:"redirectUrl,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

type ConfirmedOrder struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	Status        string          `json:"status"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Total         decimal.Decimal `json:"total"`
}

type Failure struct {
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

type CheckoutState struct {
	Stage Stage `json:"stage"`
	// Attempt identifies the current submission. Responses carrying an older
	// attempt are discarded.
	Attempt int64           `json:"attempt"`
	Address *Address        `json:"address,omitempty"`
	Method  PaymentMethod   `json:"method,omitempty"`
	Payment *PaymentSession `json:"payment,omitempty"`
	Order   *ConfirmedOrder `json:"order,omitempty"`
	Failure *Failure        `json:"failure,omitempty"`
}

// Outcome is the stage reported to the browser.
func (c CheckoutState) Outcome() Stage {
	if c.Stage == StagePaymentSelection && c.Failure != nil {
		return StageSubmissionFailed
	}
	return c.Stage
}

// AwaitingPayment reports whether an online order was created and the payment
// widget has not completed yet.
func (c CheckoutState) AwaitingPayment() bool {
	return c.Stage == StageSubmitting && c.Payment != nil
}
