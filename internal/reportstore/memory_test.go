package reportstore

import (
	"context"
	"testing"
	"time"

	"github.com/reviewtrust/gateway/pkg/models"
	"github.com/stretchr/testify/require"
)

func TestMemory_PutThenGet(t *testing.T) {
	store := NewMemory(0)
	defer store.Close()

	ctx := context.Background()
	report := models.TrustReport{TrustScore: 72}

	require.NoError(t, store.Put(ctx, "fp-1", report, 7))

	entry, err := store.Get(ctx, "fp-1")
	require.NoError(t, err)
	require.Equal(t, 72, entry.Report.TrustScore)
	require.Equal(t, 1, entry.AccessCount)
}

func TestMemory_GetMissReturnsNotFound(t *testing.T) {
	store := NewMemory(0)
	defer store.Close()

	_, err := store.Get(context.Background(), "absent")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ExpiredEntryNotReturned(t *testing.T) {
	store := NewMemory(0)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "fp-old", models.TrustReport{TrustScore: 50}, 0))

	store.mu.Lock()
	entry := store.entries["fp-old"]
	entry.ExpiresAt = time.Now().Add(-time.Hour)
	store.entries["fp-old"] = entry
	store.mu.Unlock()

	_, err := store.Get(ctx, "fp-old")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_SweepEvictsExpired(t *testing.T) {
	store := NewMemory(10 * time.Millisecond)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "fp-sweep", models.TrustReport{}, 0))

	store.mu.Lock()
	entry := store.entries["fp-sweep"]
	entry.ExpiresAt = time.Now().Add(-time.Minute)
	store.entries["fp-sweep"] = entry
	store.mu.Unlock()

	require.Eventually(t, func() bool {
		store.mu.RLock()
		_, ok := store.entries["fp-sweep"]
		store.mu.RUnlock()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestMemory_PingAlwaysSucceeds(t *testing.T) {
	store := NewMemory(0)
	defer store.Close()
	require.NoError(t, store.Ping(context.Background()))
}

func TestMemory_CloseIdempotent(t *testing.T) {
	store := NewMemory(time.Minute)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
