package cart

import "context"

// Store persists whole carts per session. Save replaces the stored value;
// Load of an unknown session returns an empty cart.
type Store interface {
	Load(ctx context.Context, session string) ([]Item, error)
	Save(ctx context.Context, session string, items []Item) error
}
