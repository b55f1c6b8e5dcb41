package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domcart "github.com/deep1161/djMART/app/internal/domain/cart"
	"github.com/deep1161/djMART/app/internal/errx"
)

const cartSchema = `
    CREATE TABLE IF NOT EXISTS carts (
        session_id TEXT        PRIMARY KEY,
        payload    JSONB       NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )
`

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type CartStore struct {
	db querier
}

func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{db: pool}
}

// Open creates a pool and pings the server.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	return pool, nil
}

func (r *CartStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, cartSchema); err != nil {
		return fmt.Errorf("create carts table: %w", err)
	}
	return nil
}

func (r *CartStore) Load(ctx context.Context, session string) ([]domcart.Item, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, `SELECT payload FROM carts WHERE session_id = $1`, session).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domcart.Item{}, nil
		}
		return nil, errx.WrapStore(err)
	}
	return domcart.Unmarshal(payload)
}

func (r *CartStore) Save(ctx context.Context, session string, items []domcart.Item) error {
	payload, err := domcart.Marshal(items)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO carts (session_id, payload, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (session_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
    `, session, string(payload))
	return errx.WrapStore(err)
}
