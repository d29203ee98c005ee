// Package cartstate holds the cart slice of a storefront session: the ordered
// line items, their derived total and the drawer visibility flag.
package cartstate

import (
	"go-storefront/internal/pricing"

	"github.com/shopspring/decimal"
)

// LineItem is a snapshot taken when the item was added; Price does not follow
// later catalog changes.
type LineItem struct {
	ProductID     string             `json:"productId"`
	Slug          string             `json:"slug,omitempty"`
	Name          string             `json:"name"`
	Image         string             `json:"image"`
	Price         decimal.Decimal    `json:"price"`
	OriginalPrice *decimal.Decimal   `json:"originalPrice,omitempty"`
	Quantity      int32              `json:"quantity"`
	VariantID     string             `json:"variantId,omitempty"`
	PackID        string             `json:"packId,omitempty"`
	StyleID       string             `json:"styleId,omitempty"`
	AddOnIDs      []string           `json:"addOnIds,omitempty"`
	Size          string             `json:"size,omitempty"`
	Fragrance     string             `json:"fragrance,omitempty"`
	Breakdown     *pricing.Breakdown `json:"breakdown,omitempty"`
}

func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt32(i.Quantity))
}

type State struct {
	Items  []LineItem      `json:"items"`
	Total  decimal.Decimal `json:"total"`
	IsOpen bool            `json:"isOpen"`
}

func Empty() State {
	return State{Items: []LineItem{}, Total: decimal.Zero}
}

// FromItems builds a state from restored items, deriving the total.
func FromItems(items []LineItem) State {
	s := State{Items: cloneItems(items)}
	return s.withTotal()
}

func (s State) Count() int { return len(s.Items) }

func (s State) IsEmpty() bool { return len(s.Items) == 0 }

func (s State) Find(productID string) (LineItem, bool) {
	for _, it := range s.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return LineItem{}, false
}

// AddItem merges into an existing line with the same product id by summing
// quantities, otherwise appends. The drawer is opened either way.
func AddItem(s State, item LineItem) State {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	items := cloneItems(s.Items)

	merged := false
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}

	s.Items = items
	s.IsOpen = true
	return s.withTotal()
}

// UpdateQuantity sets an absolute quantity, floored at 1. Unknown ids leave
// the state untouched.
func UpdateQuantity(s State, productID string, quantity int32) State {
	if quantity < 1 {
		quantity = 1
	}
	idx := indexOf(s.Items, productID)
	if idx < 0 {
		return s
	}
	items := cloneItems(s.Items)
	items[idx].Quantity = quantity
	s.Items = items
	return s.withTotal()
}

func RemoveItem(s State, productID string) State {
	idx := indexOf(s.Items, productID)
	if idx < 0 {
		return s
	}
	items := make([]LineItem, 0, len(s.Items)-1)
	items = append(items, s.Items[:idx]...)
	items = append(items, s.Items[idx+1:]...)
	s.Items = items
	return s.withTotal()
}

func Clear(s State) State {
	s.Items = []LineItem{}
	s.Total = decimal.Zero
	return s
}

func Open(s State) State {
	s.IsOpen = true
	return s
}

func Close(s State) State {
	s.IsOpen = false
	return s
}

// Sum recomputes Σ price×quantity.
func Sum(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (s State) withTotal() State {
	if s.Items == nil {
		s.Items = []LineItem{}
	}
	s.Total = Sum(s.Items)
	return s
}

func indexOf(items []LineItem, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
