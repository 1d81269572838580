package gateway

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/reviewtrust/gateway/internal/behavior"
	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/internal/nlp"
	"github.com/reviewtrust/gateway/internal/normalizer"
	"github.com/reviewtrust/gateway/internal/orchestrator"
	"github.com/reviewtrust/gateway/internal/ratelimiter"
	"github.com/reviewtrust/gateway/internal/reportstore"
	"github.com/reviewtrust/gateway/internal/reviewsource"
	"github.com/reviewtrust/gateway/internal/scoring"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testGatewayConfig() *config.Config {
	cfg := &config.Config{
		Port:            8080,
		MaxReviews:      20,
		DefaultTTLDays:  7,
		RequestTimeout:  5 * time.Second,
		CORSOrigins:     []string{"*"},
		RateLimitWindow: time.Minute,
		RateLimitRPM:    2,
	}
	cfg.Weights = config.Weights{FusionNLP: 0.5, FusionBehavior: 0.3, FusionStatistical: 0.2}
	cfg.Thresholds = config.Thresholds{
		MaxInsights:             10,
		RiskLowTrust:            80,
		RiskMediumTrust:         60,
		RiskHighTrust:           40,
		ReviewerMinCount:        2,
		ReviewerMultiplierCap:   0.5,
		ReviewerMultiplierUnit:  0.2,
		UnverifiedRatioThreshold: 0.7,
		PolarizationThreshold:   0.7,
	}
	return cfg
}

func buildTestServer(t *testing.T) (*Server, *ratelimiter.Limiter) {
	t.Helper()
	cfg := testGatewayConfig()
	norm := normalizer.New(cfg)
	store := reportstore.NewMemory(0)
	t.Cleanup(func() { store.Close() })

	orch := orchestrator.New(cfg, norm, reviewsource.NewMock(), nlp.New(cfg), behavior.New(cfg), scoring.New(cfg), store, zerolog.Nop())
	limiter := ratelimiter.New(cfg.RateLimitWindow, cfg.RateLimitRPM)
	return NewServer(cfg, orch, limiter, zerolog.Nop()), limiter
}

func TestHandleAnalyze_ReturnsTrustReport(t *testing.T) {
	server, _ := buildTestServer(t)

	body, _ := json.Marshal(analyzeRequest{ProductURL: "https://example.com/product/1"})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Status)
	require.False(t, resp.Cached)
}

func TestHandleAnalyze_LiteralJSONBodyMatchesWireContract(t *testing.T) {
	server, _ := buildTestServer(t)

	body := strings.NewReader(`{"product_url":"https://example.com/product/1","force_refresh":false}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	rec := httptest.NewRecorder()

	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Status)
}

func TestHandleAnalyze_MissingURLIsBadRequest(t *testing.T) {
	server, _ := buildTestServer(t)

	body, _ := json.Marshal(analyzeRequest{})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	server.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyze_RateLimitExceeded(t *testing.T) {
	server, _ := buildTestServer(t)

	for i := 0; i < 2; i++ {
		body, _ := json.Marshal(analyzeRequest{ProductURL: "https://example.com/product/1"})
		req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		server.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	body, _ := json.Marshal(analyzeRequest{ProductURL: "https://example.com/product/1"})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHandleHealth_ReportsHealthy(t *testing.T) {
	server, _ := buildTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
