package pricing

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var ErrQuantityWithPack = apperror.New(
	apperror.CodeValidation,
	"Quantity cannot be combined with a pack",
	http.StatusBadRequest,
)

// SelectionRequest is the wire shape of a product configuration. Quantity and
// PackID are mutually exclusive.
type SelectionRequest struct {
	VariantID string   `json:"variantId" binding:"omitempty,max=64"`
	PackID    string   `json:"packId" binding:"omitempty,max=64"`
	StyleID   string   `json:"styleId" binding:"omitempty,max=64"`
	AddOnIDs  []string `json:"addOnIds" binding:"omitempty,max=20,unique,dive,max=64"`
	Quantity  int32    `json:"quantity" binding:"omitempty,min=1,max=99"`
}

func (r SelectionRequest) Selection() (Selection, error) {
	sel := Selection{
		VariantID: r.VariantID,
		StyleID:   r.StyleID,
		AddOnIDs:  r.AddOnIDs,
	}
	switch {
	case r.PackID != "" && r.Quantity > 1:
		return Selection{}, ErrQuantityWithPack
	case r.PackID != "":
		sel.Purchase = PackBundle{PackID: r.PackID}
	default:
		sel.Purchase = SimpleQuantity(r.Quantity)
	}
	return sel, nil
}
