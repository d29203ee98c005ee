package product

import (
	"go-storefront/internal/catalog"
	"go-storefront/internal/pricing"
)

// ProductResponse is the product page payload: the catalog entry plus the
// price of its default configuration.
type ProductResponse struct {
	catalog.Entry
	Price pricing.Breakdown `json:"price"`
}
