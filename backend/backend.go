package backend

import (
	"context"
	"fmt"

	"github.com/sagarc03/kvdrop"
	"github.com/sagarc03/kvdrop/backend/filesystem"
	"github.com/sagarc03/kvdrop/backend/memory"
	"github.com/sagarc03/kvdrop/backend/postgres"
	"github.com/sagarc03/kvdrop/backend/redis"
	"github.com/sagarc03/kvdrop/backend/s3"
	"github.com/sagarc03/kvdrop/backend/sqlite"
)

// Config holds the configuration for connecting to a backend.
type Config struct {
	// Type is one of memory, sqlite, postgres, redis, filesystem, s3.
	Type string `mapstructure:"type" validate:"required,oneof=memory sqlite postgres redis filesystem s3"`
	// DSN is the sqlite/postgres connection string, the redis URL or the
	// filesystem directory.
	DSN string `mapstructure:"dsn"`
	// Table is the items table for SQL backends.
	Table string `mapstructure:"table"`
	// KeyPrefix namespaces redis keys.
	KeyPrefix string `mapstructure:"key_prefix"`
	// S3 holds object store settings.
	S3 s3.Config `mapstructure:"s3"`
	// AutoMigrate makes the server create missing schema on startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// Backend is a connected key-value backend.
type Backend interface {
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	// Migrate creates any missing schema (table, bucket). Idempotent.
	Migrate(ctx context.Context) error
	// Validate checks the schema matches what the store expects.
	Validate(ctx context.Context) error
	// GetStore returns the store used by kvdrop.Service.
	GetStore() kvdrop.Store
	// Close releases held connections.
	Close() error
}

// Connect opens the backend named by cfg.Type.
func Connect(ctx context.Context, cfg Config) (Backend, error) {
	backendType, err := kvdrop.ParseBackendType(cfg.Type)
	if err != nil {
		return nil, err
	}

	switch backendType {
	case kvdrop.BackendMemory:
		return memory.New(), nil
	case kvdrop.BackendSQLite:
		db, err := sqlite.Connect(ctx, cfg.DSN, cfg.Table)
		if err != nil {
			return nil, err
		}
		return db, nil
	case kvdrop.BackendPostgres:
		db, err := postgres.Connect(ctx, cfg.DSN, cfg.Table)
		if err != nil {
			return nil, err
		}
		return db, nil
	case kvdrop.BackendRedis:
		db, err := redis.Connect(ctx, cfg.DSN, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return db, nil
	case kvdrop.BackendFilesystem:
		db, err := filesystem.Connect(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return db, nil
	case kvdrop.BackendS3:
		db, err := s3.Connect(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
