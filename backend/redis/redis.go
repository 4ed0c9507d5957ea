// Package redis implements kvdrop.Store on top of Redis string keys.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sagarc03/kvdrop"
)

// DefaultKeyPrefix namespaces kvdrop items inside a shared Redis database.
const DefaultKeyPrefix = "kvdrop:"

// DB wraps a Redis client.
type DB struct {
	client *goredis.Client
	prefix string
}

// Connect parses a redis:// or rediss:// URL and creates a client.
// The connection is not opened until the first command.
func Connect(ctx context.Context, url, prefix string) (*DB, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return NewFromClient(goredis.NewClient(opts), prefix), nil
}

// NewFromClient wraps an existing client. An empty prefix selects
// DefaultKeyPrefix.
func NewFromClient(client *goredis.Client, prefix string) *DB {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &DB{client: client, prefix: prefix}
}

// Ping verifies the server is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

// Migrate is a no-op; Redis needs no schema.
func (d *DB) Migrate(ctx context.Context) error {
	return nil
}

// Validate checks that the server answers.
func (d *DB) Validate(ctx context.Context) error {
	if err := d.Ping(ctx); err != nil {
		return fmt.Errorf("validate redis: %w", err)
	}
	return nil
}

// GetStore returns the kvdrop.Store for item operations.
func (d *DB) GetStore() kvdrop.Store {
	return &store{client: d.client, prefix: d.prefix}
}

// Close closes the client.
func (d *DB) Close() error {
	return d.client.Close()
}

type store struct {
	client *goredis.Client
	prefix string
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, kvdrop.ErrNotFound
		}
		return nil, fmt.Errorf("get: %w", err)
	}
	return value, nil
}

func (s *store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("put: %w", err)
	}
	return nil
}
