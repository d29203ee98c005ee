package cart

import (
	"go-storefront/internal/cart/cartstate"
	"go-storefront/internal/pricing"

	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	Slug string `json:"slug" binding:"required,max=150"`
	pricing.SelectionRequest
	Size      string `json:"size" binding:"omitempty,max=50"`
	Fragrance string `json:"fragrance" binding:"omitempty,max=50"`
}

type UpdateQtyRequest struct {
	Quantity int32 `json:"quantity" binding:"max=999"`
}

type DrawerRequest struct {
	Open bool `json:"open"`
}

type CartResponse struct {
	Items  []cartstate.LineItem `json:"items"`
	Total  decimal.Decimal      `json:"total"`
	Count  int                  `json:"count"`
	IsOpen bool                 `json:"isOpen"`
}

type CartCountResponse struct {
	Count int64 `json:"count"`
}

func toResponse(s cartstate.State) CartResponse {
	items := s.Items
	if items == nil {
		items = []cartstate.LineItem{}
	}
	return CartResponse{
		Items:  items,
		Total:  s.Total,
		Count:  len(items),
		IsOpen: s.IsOpen,
	}
}
