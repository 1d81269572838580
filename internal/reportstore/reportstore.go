// Package reportstore implements the ReportStore collaborator contract:
// get/put of a TrustReport keyed by URL fingerprint with TTL enforcement.
package reportstore

import (
	"context"
	"errors"

	"github.com/reviewtrust/gateway/pkg/models"
)

// ErrNotFound is returned by Get when no live entry exists for a
// fingerprint, whether because it was never stored or because it expired.
var ErrNotFound = errors.New("reportstore: entry not found")

// Store is the collaborator contract from spec section 4.6: get/put by
// fingerprint, with at-most-one live entry per key and auto-eviction of
// expired entries.
type Store interface {
	Get(ctx context.Context, fingerprint string) (models.CacheEntry, error)
	Put(ctx context.Context, fingerprint string, report models.TrustReport, ttlDays int) error
	Ping(ctx context.Context) error
	Close() error
}
