package wishlist

import "github.com/shopspring/decimal"

type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required,max=64"`
}

type WishlistItemResponse struct {
	ID      string                  `json:"id"`
	Product WishlistProductResponse `json:"product"`
}

type WishlistProductResponse struct {
	ID            string           `json:"id"`
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	ImageURL      string           `json:"imageUrl,omitempty"`
}

type WishlistResponse struct {
	Items     []WishlistItemResponse `json:"items"`
	ItemCount int                    `json:"itemCount"`
}

type AddItemResponse struct {
	Message string `json:"message"`
}
