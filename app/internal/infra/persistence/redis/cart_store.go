package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domcart "github.com/deep1161/djMART/app/internal/domain/cart"
	"github.com/deep1161/djMART/app/internal/errx"
)

// CartStore keeps each session's cart as a JSON string under cart:{session}.
// Every save refreshes the TTL.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	return &CartStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *CartStore) Load(ctx context.Context, session string) ([]domcart.Item, error) {
	data, err := s.client.Get(ctx, cartKey(session)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domcart.Item{}, nil
	}
	if err != nil {
		return nil, errx.WrapStore(fmt.Errorf("redis get failed: %w", err))
	}
	return domcart.Unmarshal(data)
}

func (s *CartStore) Save(ctx context.Context, session string, items []domcart.Item) error {
	data, err := domcart.Marshal(items)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, cartKey(session), string(data), s.ttl).Err(); err != nil {
		return errx.WrapStore(fmt.Errorf("redis set failed: %w", err))
	}
	return nil
}

func cartKey(session string) string {
	return fmt.Sprintf("%s:%s", domcart.StorageKey, session)
}
