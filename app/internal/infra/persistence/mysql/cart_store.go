package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domcart "github.com/deep1161/djMART/app/internal/domain/cart"
	"github.com/deep1161/djMART/app/internal/errx"
)

const cartSchema = `
    CREATE TABLE IF NOT EXISTS carts (
        session_id VARCHAR(64) NOT NULL PRIMARY KEY,
        payload    JSON        NOT NULL,
        updated_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    )
`

type CartStore struct {
	db *sql.DB
}

func NewCartStore(db *sql.DB) *CartStore {
	return &CartStore{db: db}
}

func (r *CartStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, cartSchema); err != nil {
		return fmt.Errorf("create carts table: %w", err)
	}
	return nil
}

func (r *CartStore) Load(ctx context.Context, session string) ([]domcart.Item, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT payload FROM carts WHERE session_id = ?
    `, session)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO carts (session_id, payload)
        VALUES (?, ?)
        ON DUPLICATE KEY UPDATE payload = VALUES(payload)
    `, session, string(payload))
	return errx.WrapStore(err)
}
