// Package reviewsource implements the ReviewSource collaborator: fetching
// a batch of reviews and product metadata for a normalized URL.
package reviewsource

import (
	"context"

	"github.com/reviewtrust/gateway/pkg/models"
)

// Source retrieves a review batch for a target URL. Implementations must
// be safe for concurrent use.
type Source interface {
	Name() string
	Fetch(ctx context.Context, url string, maxReviews int) (models.ReviewBatch, error)
}
