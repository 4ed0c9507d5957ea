package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/kvdrop"
	"github.com/sagarc03/kvdrop/backend/redis"
)

func newTestDB(t *testing.T, prefix string) (*redis.DB, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "miniredis start")

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	db := redis.NewFromClient(rdb, prefix)

	t.Cleanup(func() {
		_ = db.Close()
		mr.Close()
	})

	return db, mr
}

func TestStore_PutGet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t, "")
	store := db.GetStore()

	require.NoError(t, store.Put(ctx, "notes.txt", []byte("hello")))

	value, err := store.Get(ctx, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), value)
}

func TestStore_UsesPrefix(t *testing.T) {
	ctx := context.Background()

	t.Run("default prefix", func(t *testing.T) {
		db, mr := newTestDB(t, "")
		require.NoError(t, db.GetStore().Put(ctx, "a.txt", []byte("x")))

		got, err := mr.Get(redis.DefaultKeyPrefix + "a.txt")
		require.NoError(t, err)
		assert.Equal(t, "x", got)
	})

	t.Run("custom prefix", func(t *testing.T) {
		db, mr := newTestDB(t, "files/")
		require.NoError(t, db.GetStore().Put(ctx, "a.txt", []byte("y")))

		assert.True(t, mr.Exists("files/a.txt"))
		assert.False(t, mr.Exists(redis.DefaultKeyPrefix+"a.txt"))
	})
}

func TestStore_Put_Overwrites(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t, "")
	store := db.GetStore()

	require.NoError(t, store.Put(ctx, "notes.txt", []byte("first")))
	require.NoError(t, store.Put(ctx, "notes.txt", []byte("second")))

	value, err := store.Get(ctx, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), value)
}

func TestStore_Get_NotFound(t *testing.T) {
	db, _ := newTestDB(t, "")

	_, err := db.GetStore().Get(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, kvdrop.ErrNotFound)
}

func TestStore_Get_ServerDown(t *testing.T) {
	db, mr := newTestDB(t, "")
	mr.Close()

	_, err := db.GetStore().Get(context.Background(), "notes.txt")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, kvdrop.ErrNotFound)
}

func TestDB_PingValidate(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t, "")

	assert.NoError(t, db.Ping(ctx))
	assert.NoError(t, db.Migrate(ctx))
	assert.NoError(t, db.Validate(ctx))
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := redis.Connect(context.Background(), "http://not-redis", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connect redis")
}

func TestConnect_ValidURL(t *testing.T) {
	mr := miniredis.RunT(t)

	db, err := redis.Connect(context.Background(), "redis://"+mr.Addr()+"/0", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.NoError(t, db.Ping(context.Background()))
}
