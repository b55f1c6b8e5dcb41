package cart

import (
	"encoding/json"
	"fmt"
	"strconv"

	domproduct "github.com/deep1161/djMART/app/internal/domain/product"
	"github.com/deep1161/djMART/app/internal/jsonx"
)

const quantityKey = "quantity"

// MarshalJSON writes the product with every catalog field it came with and
// sets "quantity" to the cart quantity, replacing the catalog's stock count.
func (i Item) MarshalJSON() ([]byte, error) {
	extra := make(map[string]json.RawMessage, len(i.Extra)+1)
	for k, v := range i.Extra {
		extra[k] = v
	}
	extra[quantityKey] = json.RawMessage(strconv.FormatInt(i.Quantity, 10))

	p := i.Product
	p.Extra = nil
	return jsonx.Merge(p, extra)
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var p domproduct.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var q struct {
		Quantity int64 `json:"quantity"`
	}
	if err := json.Unmarshal(data, &q); err != nil {
		return err
	}
	delete(p.Extra, quantityKey)
	if len(p.Extra) == 0 {
		p.Extra = nil
	}
	*i = Item{Product: p, Quantity: q.Quantity}
	return nil
}

// Marshal encodes the cart as a JSON array. An empty cart encodes as [].
func Marshal(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a stored cart. Empty input is an empty cart.
func Unmarshal(data []byte) ([]Item, error) {
	items := []Item{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}
