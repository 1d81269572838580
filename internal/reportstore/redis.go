package reportstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reviewtrust/gateway/pkg/models"
)

const keyPrefix = "reviewtrust:report:"

// Redis is a Store backed by a shared Redis instance, suitable for
// multi-instance deployments of the gateway.
type Redis struct {
	client *redis.Client
	mu     sync.RWMutex
	closed bool
}

// RedisConfig configures a new Redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis dials addr and verifies connectivity with a bounded Ping before
// returning, so construction fails fast on a misconfigured backend.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("reportstore: redis ping failed: %w", err)
	}

	return &Redis{client: client}, nil
}

func (r *Redis) key(fingerprint string) string {
	return keyPrefix + fingerprint
}

// Get decodes the entry stored under fingerprint, returning ErrNotFound if
// Redis has no live key (expired keys are evicted by Redis itself via EX).
func (r *Redis) Get(ctx context.Context, fingerprint string) (models.CacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return models.CacheEntry{}, errors.New("reportstore: redis store closed")
	}

	raw, err := r.client.Get(ctx, r.key(fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.CacheEntry{}, ErrNotFound
	}
	if err != nil {
		return models.CacheEntry{}, fmt.Errorf("reportstore: redis get: %w", err)
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return models.CacheEntry{}, fmt.Errorf("reportstore: decode cache entry: %w", err)
	}
	if entry.Expired(time.Now()) {
		return models.CacheEntry{}, ErrNotFound
	}

	entry.AccessCount++
	entry.LastAccessed = time.Now()
	if encoded, err := json.Marshal(entry); err == nil {
		r.client.Set(ctx, r.key(fingerprint), encoded, time.Until(entry.ExpiresAt))
	}

	return entry, nil
}

// Put marshals report and stores it with a TTL matching ttlDays, so Redis
// itself reclaims expired entries without a sweeper.
func (r *Redis) Put(ctx context.Context, fingerprint string, report models.TrustReport, ttlDays int) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return errors.New("reportstore: redis store closed")
	}

	now := time.Now()
	entry := models.CacheEntry{
		Report:    report,
		CachedAt:  now,
		ExpiresAt: now.AddDate(0, 0, ttlDays),
		TTLDays:   ttlDays,
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("reportstore: encode cache entry: %w", err)
	}

	ttl := time.Duration(ttlDays) * 24 * time.Hour
	if err := r.client.Set(ctx, r.key(fingerprint), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("reportstore: redis set: %w", err)
	}
	return nil
}

// Ping probes the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return errors.New("reportstore: redis store closed")
	}
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client. Safe to call multiple times.
func (r *Redis) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.client.Close()
}
