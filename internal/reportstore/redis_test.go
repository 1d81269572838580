package reportstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/reviewtrust/gateway/pkg/models"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *Redis {
	t.Helper()
	mr := miniredis.RunT(t)

	store, err := NewRedis(RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestRedis_PutThenGet(t *testing.T) {
	store := setupMiniredis(t)
	ctx := context.Background()

	report := models.TrustReport{TrustScore: 88, RiskLevel: models.RiskLow}
	require.NoError(t, store.Put(ctx, "fp-redis-1", report, 7))

	entry, err := store.Get(ctx, "fp-redis-1")
	require.NoError(t, err)
	require.Equal(t, 88, entry.Report.TrustScore)
	require.Equal(t, 1, entry.AccessCount)
}

func TestRedis_GetMissReturnsNotFound(t *testing.T) {
	store := setupMiniredis(t)
	_, err := store.Get(context.Background(), "absent")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedis_PingSucceeds(t *testing.T) {
	store := setupMiniredis(t)
	require.NoError(t, store.Ping(context.Background()))
}

func TestRedis_ClosedStoreRejectsOperations(t *testing.T) {
	store := setupMiniredis(t)
	require.NoError(t, store.Close())

	_, err := store.Get(context.Background(), "fp")
	require.Error(t, err)

	err = store.Put(context.Background(), "fp", models.TrustReport{}, 1)
	require.Error(t, err)
}

func TestRedis_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedis(RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "fp-ttl", models.TrustReport{TrustScore: 50}, 1))

	mr.FastForward(25 * time.Hour)

	_, err = store.Get(ctx, "fp-ttl")
	require.ErrorIs(t, err, ErrNotFound)
}
