package outbox

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced = "ORDER_PLACED"
	EventOrderPaid   = "ORDER_PAID"
	EventDeleteCart  = "DELETE_CART"

	AggregateOrder = "ORDER"
	AggregateCart  = "CART"
)

const (
	StatusPending = "PENDING"
	StatusFailed  = "FAILED"
)

type Event struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     string          `json:"eventType"`
	Payload       json.RawMessage `json:"payload"`
	Status        string          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// OrderPlacedPayload is the body of ORDER_PLACED and ORDER_PAID events.
type OrderPlacedPayload struct {
	SessionID     string `json:"session_id"`
	UserID        string `json:"user_id"`
	OrderID       string `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	PaymentMethod string `json:"payment_method"`
	Total         string `json:"total"`
	ItemCount     int    `json:"item_count"`
}
