package memory

import (
	"context"
	"sync"

	domcart "github.com/deep1161/djMART/app/internal/domain/cart"
)

// CartStore keeps serialized carts in process memory.
type CartStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewCartStore() *CartStore {
	return &CartStore{data: make(map[string][]byte)}
}

func (s *CartStore) Load(ctx context.Context, session string) ([]domcart.Item, error) {
	s.mu.RLock()
	data := s.data[session]
	s.mu.RUnlock()
	return domcart.Unmarshal(data)
}

func (s *CartStore) Save(ctx context.Context, session string, items []domcart.Item) error {
	data, err := domcart.Marshal(items)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[session] = data
	s.mu.Unlock()
	return nil
}

// Raw returns the stored JSON for a session.
func (s *CartStore) Raw(session string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[session]
	return string(data), ok
}
