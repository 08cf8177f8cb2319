package cart

import (
	"context"
	"database/sql"
	"fmt"
)

type sqliteStorage struct {
	db  *sql.DB
	key string
}

// NewSQLiteStorage stores the serialized cart as a single row in the
// cart_state table, keyed by StorageKey.
func NewSQLiteStorage(db *sql.DB) Storage {
	return &sqliteStorage{db: db, key: StorageKey}
}

func (s *sqliteStorage) Load(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM cart_state WHERE key = ?`, s.key).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart state: %w", err)
	}
	return payload, nil
}

func (s *sqliteStorage) Save(ctx context.Context, data []byte) error {
	const upsert = `
INSERT INTO cart_state (key, payload, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (key) DO UPDATE
SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
`
	if _, err := s.db.ExecContext(ctx, upsert, s.key, data); err != nil {
		return fmt.Errorf("save cart state: %w", err)
	}
	return nil
}

func (s *sqliteStorage) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_state WHERE key = ?`, s.key); err != nil {
		return fmt.Errorf("clear cart state: %w", err)
	}
	return nil
}
