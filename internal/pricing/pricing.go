// Package pricing resolves a product configuration (variant, pack, style,
// add-ons) into the price shown on the product page and snapshotted into the
// cart. Every function here is pure.
package pricing

import (
	"go-storefront/internal/catalog"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Purchase is how many units a selection buys. It is either a SimpleQuantity
// or a PackBundle, never both.
type Purchase interface {
	units() int32
}

// SimpleQuantity buys n loose units at the resolved unit price.
type SimpleQuantity int32

func (q SimpleQuantity) units() int32 {
	if q < 1 {
		return 1
	}
	return int32(q)
}

// PackBundle buys one pack; the pack itself encodes the bundle size.
type PackBundle struct {
	PackID string
}

func (PackBundle) units() int32 { return 1 }

type Selection struct {
	VariantID string
	StyleID   string
	AddOnIDs  []string
	Purchase  Purchase
}

// Quantity is the cart line quantity for this selection.
func (s Selection) Quantity() int32 {
	if s.Purchase == nil {
		return 1
	}
	return s.Purchase.units()
}

func (s Selection) packID() string {
	if b, ok := s.Purchase.(PackBundle); ok {
		return b.PackID
	}
	return ""
}

type Components struct {
	Base            decimal.Decimal `json:"base"`
	PackAdjustment  decimal.Decimal `json:"packAdjustment"`
	StyleAdjustment decimal.Decimal `json:"styleAdjustment"`
	AddOnsTotal     decimal.Decimal `json:"addOnsTotal"`
}

// Breakdown is the engine output. FinalPrice is per unit (or per pack);
// BasePrice is the struck-through reference (MRP) shown next to it.
type Breakdown struct {
	FinalPrice      decimal.Decimal `json:"finalPrice"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	DiscountPercent int64           `json:"discountPercent"`
	Breakdown       Components      `json:"breakdown"`

	// Resolved ids; unknown ids from the selection come back empty.
	VariantID string   `json:"variantId,omitempty"`
	PackID    string   `json:"packId,omitempty"`
	StyleID   string   `json:"styleId,omitempty"`
	AddOnIDs  []string `json:"addOnIds,omitempty"`
}

// CalculateFinalPrice never fails: ids that do not resolve against the entry
// contribute nothing.
func CalculateFinalPrice(entry catalog.Entry, sel Selection) Breakdown {
	var out Breakdown

	// 1. base
	basePrice := entry.BasePrice
	finalPrice := basePrice

	// 2. variant
	var variant *catalog.Variant
	if v, ok := entry.Variant(sel.VariantID); ok {
		variant = &v
		basePrice = v.Price
		finalPrice = v.Price
		out.VariantID = v.ID
	}

	// 3. pack
	var pack *catalog.Pack
	if p, ok := entry.Pack(variant, sel.packID()); ok {
		pack = &p
		if p.Price != nil {
			finalPrice = *p.Price
		} else {
			finalPrice = finalPrice.Mul(decimal.NewFromInt32(packQuantity(p)))
		}
		out.PackID = p.ID
	}
	packAdjustment := finalPrice.Sub(basePrice)

	// 4. style
	styleAdjustment := decimal.Zero
	if st, ok := entry.Style(sel.StyleID); ok {
		styleAdjustment = st.PriceAdjustment
		out.StyleID = st.ID
	}
	finalPrice = finalPrice.Add(styleAdjustment)

	// 5. add-ons
	addOnsTotal := decimal.Zero
	seen := make(map[string]struct{}, len(sel.AddOnIDs))
	for _, id := range sel.AddOnIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if a, ok := entry.AddOn(id); ok {
			addOnsTotal = addOnsTotal.Add(a.Price)
			out.AddOnIDs = append(out.AddOnIDs, a.ID)
		}
	}
	finalPrice = finalPrice.Add(addOnsTotal)

	// 6. reference price
	reference := referencePrice(entry, variant, pack, basePrice).
		Add(styleAdjustment).
		Add(addOnsTotal)

	// 7. discount
	discount := decimal.Max(decimal.Zero, reference.Sub(finalPrice))

	out.FinalPrice = finalPrice
	out.BasePrice = reference
	out.DiscountAmount = discount
	out.DiscountPercent = discountPercent(discount, reference)
	out.Breakdown = Components{
		Base:            basePrice,
		PackAdjustment:  packAdjustment,
		StyleAdjustment: styleAdjustment,
		AddOnsTotal:     addOnsTotal,
	}
	return out
}

// referencePrice picks the MRP before optional extras. When a pack without its
// own MRP is chosen, the variant's MRP is used if present, otherwise the
// product's, scaled by the pack quantity. The resolved root price stands in
// wherever no originalPrice exists.
func referencePrice(entry catalog.Entry, variant *catalog.Variant, pack *catalog.Pack, root decimal.Decimal) decimal.Decimal {
	productMRP := root
	if entry.BaseOriginalPrice != nil {
		productMRP = *entry.BaseOriginalPrice
	}

	if pack != nil {
		if pack.OriginalPrice != nil {
			return *pack.OriginalPrice
		}
		unitMRP := productMRP
		if variant != nil && variant.OriginalPrice != nil {
			unitMRP = *variant.OriginalPrice
		}
		return unitMRP.Mul(decimal.NewFromInt32(packQuantity(*pack)))
	}

	if variant != nil && variant.OriginalPrice != nil {
		return *variant.OriginalPrice
	}
	return productMRP
}

func discountPercent(discount, reference decimal.Decimal) int64 {
	if !reference.IsPositive() {
		return 0
	}
	pct := discount.Div(reference).Mul(hundred).Round(0).IntPart()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func packQuantity(p catalog.Pack) int32 {
	if p.Quantity < 1 {
		return 1
	}
	return p.Quantity
}
