package cartstate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// SchemaVersion is written into every persisted cart.
const SchemaVersion = 2

var (
	ErrUnsupportedVersion = errors.New("cartstate: unsupported schema version")
	ErrCorrupt            = errors.New("cartstate: corrupt payload")
)

type envelope struct {
	Version int             `json:"version"`
	Items   []LineItem      `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

// Encode serializes the persistent part of the cart (IsOpen is transient).
func Encode(s State) ([]byte, error) {
	items := s.Items
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(envelope{
		Version: SchemaVersion,
		Items:   items,
		Total:   Sum(items),
	})
}

// Decode restores a cart. The stored total is never trusted; it is derived
// again from the items. Version 1 payloads (a bare JSON array of items) are
// migrated. Items with a non-positive quantity or no product id are dropped.
//
// On error the returned state is an empty cart, so callers can log and carry on.
func Decode(data []byte) (State, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Empty(), nil
	}

	var items []LineItem
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Empty(), fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return Empty(), fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if env.Version != SchemaVersion {
			return Empty(), fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
		}
		items = env.Items
	default:
		return Empty(), ErrCorrupt
	}

	valid := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 || it.Price.IsNegative() {
			continue
		}
		valid = append(valid, it)
	}
	return FromItems(valid), nil
}
