package payment

import "github.com/shopspring/decimal"

type SessionRequest struct {
	// GatewayOrderID must be unique per gateway session, so retries of the
	// same order get a suffixed id.
	GatewayOrderID string
	Amount         decimal.Decimal
	Customer       *Customer
	Items          []Item
}

type Customer struct {
	Name  string
	Email string
	Phone string
}

type Item struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Quantity int32
}

type SessionResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}
