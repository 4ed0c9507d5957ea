// Package filesystem provides a file system backend for kvdrop.
// Every item is one file under a sandboxed root, named by the SHA-256 of
// its key and sharded by the first byte, so "a" and "a/b" never collide.
// Writes are atomic via a temp file and rename.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sagarc03/kvdrop"
)

// DB owns the root directory handle.
type DB struct {
	path string
	root *os.Root
}

// Connect creates dir if needed and opens it as a sandboxed root.
func Connect(ctx context.Context, dir string) (*DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if dir == "" {
		return nil, errors.New("connect filesystem: directory cannot be empty")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("connect filesystem: create directory: %w", err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("connect filesystem: open root: %w", err)
	}

	return &DB{path: dir, root: root}, nil
}

// Ping checks that the root directory is still reachable.
func (d *DB) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := d.root.Stat(".")
	if err != nil {
		return fmt.Errorf("ping filesystem: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("ping filesystem: %s is not a directory", d.path)
	}
	return nil
}

// Migrate is a no-op; the root is created by Connect.
func (d *DB) Migrate(ctx context.Context) error {
	return nil
}

// Validate checks that the root is a directory.
func (d *DB) Validate(ctx context.Context) error {
	return d.Ping(ctx)
}

// GetStore returns the kvdrop.Store for item operations.
func (d *DB) GetStore() kvdrop.Store {
	return NewFileStorage(d.root)
}

// Close releases the root handle.
func (d *DB) Close() error {
	return d.root.Close()
}

// Store provides file system storage operations.
type Store struct {
	root *os.Root
}

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// Get reads a whole file. Returns kvdrop.ErrNotFound if the file does not exist.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(KeyPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, kvdrop.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, kvdrop.ErrNotFound
	}

	value, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return value, nil
}

// Put atomically writes value to key using a temp file and rename.
// It creates the shard directory as needed.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	if _, err := t.Write(value); err != nil {
		return fmt.Errorf("could not write file contents: %w", err)
	}

	if err := t.Sync(); err != nil {
		return fmt.Errorf("could not sync written file: %w", err)
	}

	if err := t.Close(); err != nil {
		return fmt.Errorf("could not close temp file: %w", err)
	}

	dest := KeyPath(key)
	if err := s.root.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("could not create shard directory: %w", err)
	}

	if renameErr := s.root.Rename(tmpFile, dest); renameErr != nil {
		return fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true
	return nil
}

// KeyPath returns the file, relative to the root, that holds key:
// "<first two hex digits>/<remaining 62>" of the key's SHA-256.
func KeyPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	digest := hex.EncodeToString(sum[:])
	return filepath.Join(digest[:2], digest[2:])
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
