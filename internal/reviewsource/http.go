package reviewsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/reviewtrust/gateway/pkg/models"
)

// HTTP fetches reviews from a remote scraping/enrichment endpoint: a POST
// of {"url": ..., "max_reviews": ...} that responds with a review batch.
type HTTP struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTP builds an HTTP source posting to endpoint with the given
// request timeout.
func NewHTTP(endpoint string, timeout time.Duration) *HTTP {
	return &HTTP{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies this source in logs and metrics.
func (h *HTTP) Name() string {
	return "http"
}

type fetchRequest struct {
	URL        string `json:"url"`
	MaxReviews int    `json:"max_reviews"`
}

type fetchResponse struct {
	Reviews         []models.Review        `json:"reviews"`
	ProductMetadata models.ProductMetadata  `json:"product_metadata"`
}

// Fetch POSTs the request to the configured endpoint and decodes the
// resulting review batch.
func (h *HTTP) Fetch(ctx context.Context, url string, maxReviews int) (models.ReviewBatch, error) {
	reqBody, err := json.Marshal(fetchRequest{URL: url, MaxReviews: maxReviews})
	if err != nil {
		return models.ReviewBatch{}, fmt.Errorf("reviewsource: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return models.ReviewBatch{}, fmt.Errorf("reviewsource: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return models.ReviewBatch{}, fmt.Errorf("reviewsource: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ReviewBatch{}, fmt.Errorf("reviewsource: upstream returned status %d", resp.StatusCode)
	}

	var decoded fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return models.ReviewBatch{}, fmt.Errorf("reviewsource: decode response: %w", err)
	}

	return models.ReviewBatch{Reviews: decoded.Reviews, Metadata: decoded.ProductMetadata}, nil
}
