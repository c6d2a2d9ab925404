package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountpro/bookkeeper/internal/usecase"
)

func TestIdempotencyStore_ClaimUpdateReplay(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "k", nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, resp)

	exists, resp, err = store.CheckAndSet(ctx, "k", nil, time.Minute)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, usecase.IdempotencyPending, string(resp))

	require.NoError(t, store.Update(ctx, "k", []byte(`{"id":"v1"}`), time.Minute))

	exists, resp, err = store.CheckAndSet(ctx, "k", nil, time.Minute)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, `{"id":"v1"}`, string(resp))
}

func TestIdempotencyStore_ExpiryAndRelease(t *testing.T) {
	store := NewIdempotencyStore()
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, _, err := store.CheckAndSet(ctx, "old", nil, time.Minute)
	require.NoError(t, err)
	_, _, err = store.CheckAndSet(ctx, "released", nil, time.Hour)
	require.NoError(t, err)

	require.NoError(t, store.Release(ctx, "released"))
	exists, _, err := store.CheckAndSet(ctx, "released", nil, time.Hour)
	require.NoError(t, err)
	assert.False(t, exists, "released key should be claimable again")

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, store.Purge())

	exists, _, err = store.CheckAndSet(ctx, "old", nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists)
}
