package reportstore

import (
	"context"
	"sync"
	"time"

	"github.com/reviewtrust/gateway/pkg/models"
)

// Memory is an in-process Store backed by a mutex-guarded map, with a
// background sweeper evicting expired entries. Suitable for single-instance
// deployments and tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]models.CacheEntry
	stop    chan struct{}
	closed  bool
}

// NewMemory starts a Memory store with a sweep goroutine running at the
// given interval. Pass 0 to disable sweeping (entries still expire lazily
// on Get).
func NewMemory(sweepInterval time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]models.CacheEntry),
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go m.sweepLoop(sweepInterval)
	}
	return m
}

func (m *Memory) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

func (m *Memory) sweep() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for fp, entry := range m.entries {
		if entry.Expired(now) {
			delete(m.entries, fp)
		}
	}
}

// Get returns ErrNotFound if the fingerprint has no entry or its entry has
// expired.
func (m *Memory) Get(_ context.Context, fingerprint string) (models.CacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[fingerprint]
	if !ok || entry.Expired(time.Now()) {
		return models.CacheEntry{}, ErrNotFound
	}
	entry.AccessCount++
	entry.LastAccessed = time.Now()
	m.entries[fingerprint] = entry
	return entry, nil
}

// Put stores report under fingerprint with the given TTL in days.
func (m *Memory) Put(_ context.Context, fingerprint string, report models.TrustReport, ttlDays int) error {
	now := time.Now()
	entry := models.CacheEntry{
		Report:    report,
		CachedAt:  now,
		ExpiresAt: now.AddDate(0, 0, ttlDays),
		TTLDays:   ttlDays,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[fingerprint] = entry
	return nil
}

// Ping always succeeds; Memory has no external dependency to probe.
func (m *Memory) Ping(_ context.Context) error {
	return nil
}

// Close stops the sweep goroutine. Safe to call multiple times.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.stop)
	return nil
}
