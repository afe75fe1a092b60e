package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pizza-service/internal/auth"
)

func newRedisSessionStoreTest(t *testing.T, ttl time.Duration) (auth.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return NewRedisSessionStore(rdb, "test", ttl), mr
}

func testSessionStoreContract(t *testing.T, store auth.SessionStore) {
	ctx := context.Background()
	const token = "header.payload.signature"

	active, err := store.IsActive(ctx, token)
	require.NoError(t, err)
	assert.False(t, active, "unknown token")

	require.NoError(t, store.Record(ctx, token, 5))
	require.NoError(t, store.Record(ctx, token, 5), "record is idempotent")

	active, err = store.IsActive(ctx, token)
	require.NoError(t, err)
	assert.True(t, active)

	other := "header.payload.other"
	require.NoError(t, store.Record(ctx, other, 5))

	require.NoError(t, store.Revoke(ctx, token))
	active, err = store.IsActive(ctx, token)
	require.NoError(t, err)
	assert.False(t, active, "revoked token")

	active, err = store.IsActive(ctx, other)
	require.NoError(t, err)
	assert.True(t, active, "revoking one token leaves other sessions for the user")

	require.NoError(t, store.Revoke(ctx, token), "revoking twice is a no-op")
	require.NoError(t, store.Revoke(ctx, "never.recorded.token"))
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	testSessionStoreContract(t, store)
	assert.Equal(t, 1, store.Len())
}

func TestMemorySessionStoreConcurrentRevoke(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()
	require.NoError(t, store.Record(ctx, "t", 1))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Revoke(ctx, "t")
		}()
	}
	wg.Wait()

	active, err := store.IsActive(ctx, "t")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRedisSessionStore(t *testing.T) {
	store, mr := newRedisSessionStoreTest(t, 0)
	testSessionStoreContract(t, store)

	for _, key := range mr.Keys() {
		assert.NotContains(t, key, "header.payload", "raw tokens are never stored")
	}
}

func TestRedisSessionStoreTTL(t *testing.T) {
	store, mr := newRedisSessionStoreTest(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Record(ctx, "a.b.c", 9))

	mr.FastForward(2 * time.Minute)

	active, err := store.IsActive(ctx, "a.b.c")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRedisSessionStoreUnavailable(t *testing.T) {
	store, mr := newRedisSessionStoreTest(t, 0)
	mr.Close()

	_, err := store.IsActive(context.Background(), "a.b.c")
	assert.Error(t, err)
}

func TestPostgresSessionStore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresSessionStore(mock)
	ctx := context.Background()
	key := auth.SessionKey("a.b.c")

	mock.ExpectExec("INSERT INTO auth").WithArgs(key, int64(5)).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(key).WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("DELETE FROM auth").WithArgs(key).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(key).WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("DELETE FROM auth").WithArgs(key).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, store.Record(ctx, "a.b.c", 5))
	active, err := store.IsActive(ctx, "a.b.c")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, store.Revoke(ctx, "a.b.c"))
	active, err = store.IsActive(ctx, "a.b.c")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, store.Revoke(ctx, "a.b.c"), "missing rows are not an error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionStorePropagatesErrors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	down := errors.New("connection refused")
	mock.ExpectQuery("SELECT EXISTS").WillReturnError(down)

	_, err = NewPostgresSessionStore(mock).IsActive(context.Background(), "a.b.c")
	assert.ErrorIs(t, err, down)
}
