// Package sqlite implements kvdrop.Store using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/kvdrop"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB provides SQLite database operations.
type DB struct {
	db        *sql.DB
	tableName string
}

// Connect opens a SQLite database. The table name is validated here and
// created by Migrate.
func Connect(ctx context.Context, dsn, tableName string) (*DB, error) {
	if err := kvdrop.ValidateTableName(tableName); err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	return &DB{
		db:        db,
		tableName: tableName,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Migrate creates the items table if it does not exist.
func (d *DB) Migrate(ctx context.Context) error {
	if err := createItemsTable(ctx, d.db, d.tableName); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that the items table matches the expected structure.
func (d *DB) Validate(ctx context.Context) error {
	if err := validateTableSchema(ctx, d.db, d.tableName); err != nil {
		return fmt.Errorf("validate schema %s: %w", d.tableName, err)
	}
	return nil
}

// GetStore returns the kvdrop.Store for item operations.
func (d *DB) GetStore() kvdrop.Store {
	return &store{db: d.db, tableName: d.tableName}
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
