package reviewsource

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/reviewtrust/gateway/pkg/models"
)

// Mock is a deterministic synthetic ReviewSource. It derives its output
// entirely from the target URL, so repeated calls for the same URL are
// identical; it never performs network I/O. Intended for local
// development and as the default when no scrape endpoint is configured.
type Mock struct{}

// NewMock builds a Mock source.
func NewMock() *Mock {
	return &Mock{}
}

// Name identifies this source in logs and metrics.
func (m *Mock) Name() string {
	return "mock"
}

var mockTemplates = []struct {
	text   string
	rating int
}{
	{"This product exceeded my expectations, build quality is solid and it arrived on time.", 5},
	{"Works as described. Nothing special but does the job.", 3},
	{"Broke after two weeks of normal use. Disappointed with the durability.", 1},
	{"Great value for money, would buy again.", 4},
	{"Amazing!!! Best purchase ever!!! Five stars!!! Buy now!!!", 5},
	{"The packaging was damaged but the item itself works fine.", 3},
	{"Not what I expected from the photos, returned it.", 2},
	{"Solid performance, easy to set up, customer support was responsive.", 4},
	{"Perfect perfect perfect, exactly what I needed, highly recommend to everyone.", 5},
	{"Mediocre at best, overpriced for what you get.", 2},
}

// Fetch synthesizes maxReviews reviews seeded from url's hash, along with
// minimal product metadata.
func (m *Mock) Fetch(ctx context.Context, url string, maxReviews int) (models.ReviewBatch, error) {
	if err := ctx.Err(); err != nil {
		return models.ReviewBatch{}, err
	}
	if maxReviews <= 0 {
		maxReviews = 50
	}

	seed := seedFromURL(url)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	reviews := make([]models.Review, 0, maxReviews)
	for i := 0; i < maxReviews; i++ {
		tpl := mockTemplates[(seed+uint64(i))%uint64(len(mockTemplates))]
		date := base.AddDate(0, 0, int((seed+uint64(i*7))%365))
		reviews = append(reviews, models.Review{
			ReviewID:         fmt.Sprintf("mock-%d-%d", seed, i),
			Rating:           float64(tpl.rating),
			Text:             tpl.text,
			Title:            fmt.Sprintf("Review %d", i+1),
			Date:             date.Format("2006-01-02"),
			ReviewerName:     fmt.Sprintf("reviewer_%d", (seed+uint64(i*13))%997),
			VerifiedPurchase: (seed+uint64(i))%5 != 0,
			HelpfulCount:     int((seed + uint64(i*3)) % 20),
		})
	}

	count := len(reviews)
	metadata := models.ProductMetadata{
		ProductName:          "Mock Product",
		Platform:             "mock",
		AggregateRatingCount: &count,
	}

	return models.ReviewBatch{Reviews: reviews, Metadata: metadata}, nil
}

func seedFromURL(url string) uint64 {
	sum := sha256.Sum256([]byte(url))
	return binary.BigEndian.Uint64(sum[:8])
}
