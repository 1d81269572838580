package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowsUpToMax(t *testing.T) {
	l := New(time.Minute, 3)
	now := time.Now()

	require.True(t, l.AllowAt("client-a", now))
	require.True(t, l.AllowAt("client-a", now))
	require.True(t, l.AllowAt("client-a", now))
	require.False(t, l.AllowAt("client-a", now))
}

func TestLimiter_WindowSlidesRequestsExpire(t *testing.T) {
	l := New(time.Minute, 2)
	base := time.Now()

	require.True(t, l.AllowAt("client-b", base))
	require.True(t, l.AllowAt("client-b", base))
	require.False(t, l.AllowAt("client-b", base))

	later := base.Add(2 * time.Minute)
	require.True(t, l.AllowAt("client-b", later))
}

func TestLimiter_IdentitiesAreIndependent(t *testing.T) {
	l := New(time.Minute, 1)
	now := time.Now()

	require.True(t, l.AllowAt("client-c", now))
	require.True(t, l.AllowAt("client-d", now))
	require.False(t, l.AllowAt("client-c", now))
}

func TestLimiter_ResetClearsHistory(t *testing.T) {
	l := New(time.Minute, 1)
	now := time.Now()

	require.True(t, l.AllowAt("client-e", now))
	require.False(t, l.AllowAt("client-e", now))

	l.Reset()
	require.True(t, l.AllowAt("client-e", now))
}
