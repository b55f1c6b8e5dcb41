package cart

import (
	domproduct "github.com/deep1161/djMART/app/internal/domain/product"
)

// StorageKey is the well-known key the serialized cart lives under.
const StorageKey = "cart"

// Item is a product snapshot plus the quantity chosen when it was added.
// It serializes as the full product object with "quantity" set to the
// cart quantity.
type Item struct {
	domproduct.Product
	Quantity int64 `json:"quantity"`
}

// Contains reports whether any item carries the given product id.
func Contains(items []Item, productID string) bool {
	if productID == "" {
		return false
	}
	for _, item := range items {
		if item.ID == productID {
			return true
		}
	}
	return false
}

// Append returns a new cart with item added. With merge set, the quantity
// of an existing entry for the same product is increased instead.
func Append(items []Item, item Item, merge bool) []Item {
	next := make([]Item, 0, len(items)+1)
	next = append(next, items...)
	if merge {
		for i := range next {
			if next[i].ID == item.ID {
				next[i].Quantity += item.Quantity
				return next
			}
		}
	}
	return append(next, item)
}

// Without returns a new cart with every entry for productID removed.
func Without(items []Item, productID string) []Item {
	next := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID != productID {
			next = append(next, item)
		}
	}
	return next
}

func Clone(items []Item) []Item {
	next := make([]Item, len(items))
	copy(next, items)
	return next
}
