package kvdrop_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sagarc03/kvdrop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type SpyStore struct {
	mock.Mock
}

func (s *SpyStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := s.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (s *SpyStore) Put(ctx context.Context, key string, value []byte) error {
	args := s.Called(ctx, key, value)
	return args.Error(0)
}

func TestService_Get_Success(t *testing.T) {
	spy := new(SpyStore)
	service := kvdrop.NewService(spy)

	spy.On("Get", mock.Anything, "notes.txt").Return([]byte("hello"), nil)

	value, err := service.Get(context.Background(), "notes.txt")

	assert.NoError(t, err)
	assert.Equal(t, []byte("hello"), value)
	spy.AssertExpectations(t)
}

func TestService_Get_NotFound(t *testing.T) {
	spy := new(SpyStore)
	service := kvdrop.NewService(spy)

	spy.On("Get", mock.Anything, "missing.txt").Return(nil, kvdrop.ErrNotFound)

	_, err := service.Get(context.Background(), "missing.txt")

	assert.ErrorIs(t, err, kvdrop.ErrNotFound)
	spy.AssertExpectations(t)
}

func TestService_Get_InvalidKey(t *testing.T) {
	spy := new(SpyStore)
	service := kvdrop.NewService(spy)

	_, err := service.Get(context.Background(), "../secret")

	assert.ErrorIs(t, err, kvdrop.ErrInvalidInput)
	spy.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestService_Get_ContextCanceled(t *testing.T) {
	spy := new(SpyStore)
	service := kvdrop.NewService(spy)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Get(ctx, "notes.txt")

	assert.ErrorIs(t, err, context.Canceled)
	spy.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestService_Get_StoreError(t *testing.T) {
	spy := new(SpyStore)
	service := kvdrop.NewService(spy)

	storeErr := errors.New("connection reset")
	spy.On("Get", mock.Anything, "notes.txt").Return(nil, storeErr)

	_, err := service.Get(context.Background(), "notes.txt")

	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestService_Put_Success(t *testing.T) {
	spy := new(SpyStore)
	service := kvdrop.NewService(spy)

	spy.On("Put", mock.Anything, "notes.txt", []byte("hello")).Return(nil)

	err := service.Put(context.Background(), "notes.txt", []byte("hello"))

	assert.NoError(t, err)
	spy.AssertExpectations(t)
}

func TestService_Put_NilValueStoredAsEmpty(t *testing.T) {
	spy := new(SpyStore)
	service := kvdrop.NewService(spy)

	spy.On("Put", mock.Anything, "empty.txt", []byte{}).Return(nil)

	err := service.Put(context.Background(), "empty.txt", nil)

	assert.NoError(t, err)
	spy.AssertExpectations(t)
}

func TestService_Put_InvalidKey(t *testing.T) {
	spy := new(SpyStore)
	service := kvdrop.NewService(spy)

	err := service.Put(context.Background(), "a//b", []byte("x"))

	assert.ErrorIs(t, err, kvdrop.ErrInvalidInput)
	spy.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Put_StoreError(t *testing.T) {
	spy := new(SpyStore)
	service := kvdrop.NewService(spy)

	storeErr := errors.New("disk full")
	spy.On("Put", mock.Anything, "notes.txt", []byte("x")).Return(storeErr)

	err := service.Put(context.Background(), "notes.txt", []byte("x"))

	assert.ErrorIs(t, err, storeErr)
}

func TestService_NilStore(t *testing.T) {
	service := kvdrop.NewService(nil)

	_, err := service.Get(context.Background(), "notes.txt")
	assert.ErrorIs(t, err, kvdrop.ErrStoreNotBound)

	err = service.Put(context.Background(), "notes.txt", []byte("x"))
	assert.ErrorIs(t, err, kvdrop.ErrStoreNotBound)
}

func TestService_Bound(t *testing.T) {
	var nilService *kvdrop.Service

	assert.True(t, kvdrop.NewService(new(SpyStore)).Bound())
	assert.False(t, kvdrop.NewService(nil).Bound())
	assert.False(t, nilService.Bound())
}
