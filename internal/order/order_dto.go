package order

import (
	"time"

	"go-storefront/internal/cart/cartstate"
	"go-storefront/internal/session"

	"github.com/shopspring/decimal"
)

// ==================== REQUEST STRUCTS ====================

// OrderItemRequest carries a cart line with every pricing snapshot field so
// the backend can re-check the price the customer saw.
type OrderItemRequest struct {
	ProductID     string           `json:"productId"`
	Name          string           `json:"name"`
	Quantity      int32            `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	VariantID     string           `json:"variantId,omitempty"`
	PackID        string           `json:"packId,omitempty"`
	StyleID       string           `json:"styleId,omitempty"`
	AddOnIDs      []string         `json:"addOnIds,omitempty"`
	Size          string           `json:"size,omitempty"`
	Fragrance     string           `json:"fragrance,omitempty"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest    `json:"items"`
	ShippingAddress session.Address       `json:"shippingAddress"`
	PaymentMethod   session.PaymentMethod `json:"paymentMethod"`
}

type VerifyPaymentRequest struct {
	OrderID        string `json:"orderId"`
	PaymentID      string `json:"paymentId"`
	Signature      string `json:"signature"`
	GatewayOrderID string `json:"gatewayOrderId"`
}

type RefundRequest struct {
	Reason string `json:"reason" binding:"required,min=5,max=500"`
}

type ListQuery struct {
	Status string
	Page   int
	Limit  int
}

// ==================== RESPONSE STRUCTS ====================

type CreateOrderResponse struct {
	Order       OrderResponse `json:"order"`
	Token       string        `json:"token"`
	RedirectURL string        `json:"redirectUrl,omitempty"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	OrderNumber   string              `json:"orderNumber"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"paymentStatus"`
	PaymentMethod string              `json:"paymentMethod"`
	TotalPrice    decimal.Decimal     `json:"totalPrice"`
	PlacedAt      time.Time           `json:"placedAt"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}

type OrderItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	NameSnapshot string          `json:"nameSnapshot"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int32           `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type ListOrderResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Page   int32           `json:"page"`
	Limit  int32           `json:"limit"`
}

// ==================== EVENTS ====================

// DeleteCartPayload is emitted by the order backend once an online payment is
// settled server side.
type DeleteCartPayload struct {
	SessionID string `json:"session_id"`
}

// ItemsFromCart converts cart lines into order lines.
func ItemsFromCart(items []cartstate.LineItem) []OrderItemRequest {
	out := make([]OrderItemRequest, 0, len(items))
	for _, it := range items {
		out = append(out, OrderItemRequest{
			ProductID:     it.ProductID,
			Name:          it.Name,
			Quantity:      it.Quantity,
			UnitPrice:     it.Price,
			OriginalPrice: it.OriginalPrice,
			VariantID:     it.VariantID,
			PackID:        it.PackID,
			StyleID:       it.StyleID,
			AddOnIDs:      it.AddOnIDs,
			Size:          it.Size,
			Fragrance:     it.Fragrance,
		})
	}
	return out
}
