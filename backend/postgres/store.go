package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/kvdrop"
)

type store struct {
	pool      *pgxpool.Pool
	tableName string
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE item_key = $1`, pgx.Identifier{s.tableName}.Sanitize())

	var value []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	query := fmt.Sprintf(`
		INSERT INTO %s (item_key, value)
		VALUES ($1, $2)
		ON CONFLICT (item_key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`, pgx.Identifier{s.tableName}.Sanitize())

	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("put: %w", err)
	}

	return nil
}
