package catalog

import "github.com/shopspring/decimal"

// Entry is a product as served by the product API. It is read-only here.
type Entry struct {
	ID                string           `json:"id"`
	Slug              string           `json:"slug"`
	Name              string           `json:"name"`
	Images            []string         `json:"images"`
	BasePrice         decimal.Decimal  `json:"basePrice"`
	BaseOriginalPrice *decimal.Decimal `json:"baseOriginalPrice,omitempty"`
	Stock             int32            `json:"stock"`
	Variants          []Variant        `json:"variants"`
	Packs             []Pack           `json:"packs"`
	Styles            []Style          `json:"styles"`
	AddOns            []AddOn          `json:"addOns"`
	Sizes             []string         `json:"sizes,omitempty"`
	Fragrances        []string         `json:"fragrances,omitempty"`
}

type Variant struct {
	ID            string           `json:"id"`
	Label         string           `json:"label"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Stock         int32            `json:"stock"`
	Packs         []Pack           `json:"packs,omitempty"`
}

// Pack is a bundle quantity. A nil Price means "per-unit price × Quantity".
type Pack struct {
	ID            string           `json:"id"`
	Label         string           `json:"label"`
	Quantity      int32            `json:"quantity"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
}

type Style struct {
	ID              string          `json:"id"`
	Label           string          `json:"label"`
	PriceAdjustment decimal.Decimal `json:"priceAdjustment"`
}

type AddOn struct {
	ID    string          `json:"id"`
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

func (e Entry) Variant(id string) (Variant, bool) {
	if id == "" {
		return Variant{}, false
	}
	for _, v := range e.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// Pack resolves a pack id, looking in the variant's own packs first and then
// the product-level packs.
func (e Entry) Pack(variant *Variant, id string) (Pack, bool) {
	if id == "" {
		return Pack{}, false
	}
	if variant != nil {
		for _, p := range variant.Packs {
			if p.ID == id {
				return p, true
			}
		}
	}
	for _, p := range e.Packs {
		if p.ID == id {
			return p, true
		}
	}
	return Pack{}, false
}

func (e Entry) Style(id string) (Style, bool) {
	if id == "" {
		return Style{}, false
	}
	for _, s := range e.Styles {
		if s.ID == id {
			return s, true
		}
	}
	return Style{}, false
}

func (e Entry) AddOn(id string) (AddOn, bool) {
	for _, a := range e.AddOns {
		if a.ID == id {
			return a, true
		}
	}
	return AddOn{}, false
}

// PrimaryImage is the image snapshotted into cart line items.
func (e Entry) PrimaryImage() string {
	if len(e.Images) == 0 {
		return ""
	}
	return e.Images[0]
}
