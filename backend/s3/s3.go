// Package s3 implements kvdrop.Store on an S3-compatible object store
// (MinIO, AWS S3, R2). Every item is one object in a single bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sagarc03/kvdrop"
)

// Config holds connection settings for the object store.
type Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
}

// Validate reports missing settings.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "endpoint")
	}
	if c.AccessKey == "" {
		missing = append(missing, "access_key")
	}
	if c.SecretKey == "" {
		missing = append(missing, "secret_key")
	}
	if c.Bucket == "" {
		missing = append(missing, "bucket")
	}
	if len(missing) > 0 {
		return fmt.Errorf("s3 configuration incomplete: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// DB wraps a minio client bound to one bucket.
type DB struct {
	client *minio.Client
	bucket string
	region string
}

// Connect builds a client. No request is sent until Ping or a store call.
func Connect(ctx context.Context, cfg Config) (*DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("connect s3: %w", err)
	}

	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("connect s3: %w", err)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connect s3: %w", err)
	}

	return &DB{client: client, bucket: cfg.Bucket, region: cfg.Region}, nil
}

// normaliseEndpoint accepts "host:port" or a http(s) URL without a path.
func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, errors.New("empty endpoint")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, errors.New("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, errors.New("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	// host:port defaults to plain HTTP for local MinIO.
	return raw, false, nil
}

// Ping checks that the bucket is reachable.
func (d *DB) Ping(ctx context.Context) error {
	if _, err := d.client.BucketExists(ctx, d.bucket); err != nil {
		return fmt.Errorf("ping s3: %w", err)
	}
	return nil
}

// Migrate creates the bucket when it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	exists, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return fmt.Errorf("migrate s3: %w", err)
	}
	if exists {
		return nil
	}

	if err := d.client.MakeBucket(ctx, d.bucket, minio.MakeBucketOptions{Region: d.region}); err != nil {
		return fmt.Errorf("migrate s3: create bucket %s: %w", d.bucket, err)
	}
	return nil
}

// Validate fails when the bucket does not exist.
func (d *DB) Validate(ctx context.Context) error {
	exists, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return fmt.Errorf("validate s3: %w", err)
	}
	if !exists {
		return fmt.Errorf("validate s3: bucket does not exist: %s", d.bucket)
	}
	return nil
}

// GetStore returns the kvdrop.Store for item operations.
func (d *DB) GetStore() kvdrop.Store {
	return &Store{client: d.client, bucket: d.bucket}
}

// Close is a no-op; the minio client holds no persistent connection.
func (d *DB) Close() error {
	return nil
}

// Store reads and writes objects in one bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// Get downloads an object. Returns kvdrop.ErrNotFound if it does not exist.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError("get object", err)
	}
	defer func() { _ = obj.Close() }()

	value, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapError("read object", err)
	}

	return value, nil
}

// Put uploads value as the full content of key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func mapError(op string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || (resp.StatusCode == http.StatusNotFound && resp.Code != "NoSuchBucket") {
		return kvdrop.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
