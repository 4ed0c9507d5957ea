// Package postgres implements kvdrop.Store using PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/kvdrop"
)

// DB provides PostgreSQL database operations.
type DB struct {
	pool      *pgxpool.Pool
	tableName string
}

// Connect establishes a connection pool to PostgreSQL.
func Connect(ctx context.Context, dsn, tableName string) (*DB, error) {
	if err := kvdrop.ValidateTableName(tableName); err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return NewFromPool(pool, tableName), nil
}

// NewFromPool wraps an existing pool. The caller keeps ownership of the
// table name validation.
func NewFromPool(pool *pgxpool.Pool, tableName string) *DB {
	return &DB{
		pool:      pool,
		tableName: tableName,
	}
}

// Ping verifies the database connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Migrate creates the items table if it does not exist.
func (d *DB) Migrate(ctx context.Context) error {
	if err := createItemsTable(ctx, d.pool, d.tableName); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that the items table matches the expected structure.
func (d *DB) Validate(ctx context.Context) error {
	if err := validateTableSchema(ctx, d.pool, d.tableName); err != nil {
		return fmt.Errorf("validate schema %s: %w", d.tableName, err)
	}
	return nil
}

// GetStore returns the kvdrop.Store for item operations.
func (d *DB) GetStore() kvdrop.Store {
	return &store{pool: d.pool, tableName: d.tableName}
}

// Close closes the connection pool.
func (d *DB) Close() error {
	d.pool.Close()
	return nil
}
