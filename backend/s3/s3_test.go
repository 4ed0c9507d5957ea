package s3_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sagarc03/kvdrop"
	"github.com/sagarc03/kvdrop/backend/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers just enough of the S3 API for path-style requests against
// a single bucket.
type fakeS3 struct {
	mu           sync.Mutex
	bucket       string
	bucketExists bool
	objects      map[string]string
	putRequests  int
	madeBucket   bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")
	if bucket != f.bucket {
		writeS3Error(w, http.StatusNotFound, "NoSuchBucket")
		return
	}

	switch {
	case key == "" && r.Method == http.MethodHead:
		if !f.bucketExists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case key == "" && r.Method == http.MethodPut:
		f.bucketExists = true
		f.madeBucket = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet:
		value, ok := f.objects[key]
		if !ok {
			writeS3Error(w, http.StatusNotFound, "NoSuchKey")
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, value)
	case r.Method == http.MethodPut:
		f.putRequests++
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeS3Error(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>`+code+`</Code><Message>`+code+`</Message></Error>`)
}

func setupFake(t *testing.T, bucketExists bool) (*s3.DB, *fakeS3) {
	t.Helper()

	fake := &fakeS3{bucket: "kvdrop", bucketExists: bucketExists, objects: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	db, err := s3.Connect(context.Background(), s3.Config{
		Endpoint:  srv.URL,
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "kvdrop",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, fake
}

func TestConfig_Validate(t *testing.T) {
	err := s3.Config{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")
	assert.Contains(t, err.Error(), "bucket")

	err = s3.Config{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "s", Bucket: "b"}.Validate()
	assert.NoError(t, err)
}

func TestConnect_InvalidConfig(t *testing.T) {
	_, err := s3.Connect(context.Background(), s3.Config{Endpoint: "minio:9000"})
	assert.Error(t, err)

	_, err = s3.Connect(context.Background(), s3.Config{
		Endpoint: "http://minio:9000/path", AccessKey: "a", SecretKey: "s", Bucket: "b",
	})
	assert.Error(t, err)
}

func TestStore_Get(t *testing.T) {
	db, fake := setupFake(t, true)
	fake.objects["notes.txt"] = "hello world"

	value, err := db.GetStore().Get(context.Background(), "notes.txt")

	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), value)
}

func TestStore_Get_NotFound(t *testing.T) {
	db, _ := setupFake(t, true)

	_, err := db.GetStore().Get(context.Background(), "missing.txt")

	assert.ErrorIs(t, err, kvdrop.ErrNotFound)
}

func TestStore_Put(t *testing.T) {
	db, fake := setupFake(t, true)

	err := db.GetStore().Put(context.Background(), "notes.txt", []byte("hello"))

	require.NoError(t, err)
	assert.Equal(t, 1, fake.putRequests)
}

func TestDB_ValidateAndMigrate(t *testing.T) {
	ctx := context.Background()
	db, fake := setupFake(t, false)

	assert.NoError(t, db.Ping(ctx))
	assert.Error(t, db.Validate(ctx))

	require.NoError(t, db.Migrate(ctx))
	assert.True(t, fake.madeBucket)
	assert.NoError(t, db.Validate(ctx))

	// Existing bucket: no second create.
	fake.madeBucket = false
	require.NoError(t, db.Migrate(ctx))
	assert.False(t, fake.madeBucket)
}
