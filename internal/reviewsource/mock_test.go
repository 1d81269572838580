package reviewsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMock_DeterministicForSameURL(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	first, err := m.Fetch(ctx, "https://example.com/product/1", 20)
	require.NoError(t, err)

	second, err := m.Fetch(ctx, "https://example.com/product/1", 20)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestMock_DiffersAcrossURLs(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	a, err := m.Fetch(ctx, "https://example.com/product/1", 10)
	require.NoError(t, err)
	b, err := m.Fetch(ctx, "https://example.com/product/2", 10)
	require.NoError(t, err)

	require.NotEqual(t, a.Reviews[0].ReviewID, b.Reviews[0].ReviewID)
}

func TestMock_RespectsMaxReviews(t *testing.T) {
	m := NewMock()
	batch, err := m.Fetch(context.Background(), "https://example.com/x", 7)
	require.NoError(t, err)
	require.Len(t, batch.Reviews, 7)
}

func TestMock_RejectsCancelledContext(t *testing.T) {
	m := NewMock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Fetch(ctx, "https://example.com/x", 5)
	require.Error(t, err)
}
