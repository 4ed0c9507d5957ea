package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sagarc03/kvdrop"
)

type store struct {
	db        *sql.DB
	tableName string
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT value FROM %s WHERE item_key = ?`, quoteIdentifier(s.tableName))

	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kvdrop.ErrNotFound
		}
		return nil, fmt.Errorf("get: %w", err)
	}

	if value == nil {
		value = []byte{}
	}

	return value, nil
}

func (s *store) Put(ctx context.Context, key string, value []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (item_key, value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (item_key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at`, quoteIdentifier(s.tableName))

	if _, err := s.db.ExecContext(ctx, query, key, value, now, now); err != nil {
		return fmt.Errorf("put: %w", err)
	}

	return nil
}
