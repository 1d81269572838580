package orchestrator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reviewtrust/gateway/internal/behavior"
	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/internal/nlp"
	"github.com/reviewtrust/gateway/internal/normalizer"
	"github.com/reviewtrust/gateway/internal/reportstore"
	"github.com/reviewtrust/gateway/internal/scoring"
	"github.com/reviewtrust/gateway/pkg/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testOrchestratorConfig() *config.Config {
	cfg := &config.Config{MaxReviews: 50, DefaultTTLDays: 7}
	cfg.Weights = config.Weights{
		SentimentMethodA: 0.6, SentimentMethodB: 0.4,
		FakePromotional: 0.25, FakeGeneric: 0.20, FakeQuality: -0.15,
		FakeSentimentMismatch: 0.30, FakeTextFeatures: 0.15, FakeSpamIndicators: 0.15,
		QualityReadability: 0.4, QualityLexicalDiversity: 0.3, QualityLength: 0.3,
		BehaviorTemporal: 0.4, BehaviorReviewer: 0.3, BehaviorRating: 0.3,
		FusionNLP: 0.5, FusionBehavior: 0.3, FusionStatistical: 0.2,
	}
	cfg.Thresholds = config.Thresholds{
		MaxInsights:             10,
		ReviewerMinCount:        2,
		ReviewerMultiplierCap:   0.5,
		ReviewerMultiplierUnit:  0.2,
		UnverifiedRatioThreshold: 0.7,
		PolarizationThreshold:   0.7,
		RiskLowTrust:            80,
		RiskMediumTrust:         60,
		RiskHighTrust:           40,
		ConfidenceBaseline:      0.5,
	}
	return cfg
}

type spySource struct {
	calls int32
	batch models.ReviewBatch
	err   error
}

func (s *spySource) Name() string { return "spy" }

func (s *spySource) Fetch(_ context.Context, _ string, _ int) (models.ReviewBatch, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return models.ReviewBatch{}, s.err
	}
	return s.batch, nil
}

func buildOrchestrator(t *testing.T, source *spySource, store reportstore.Store) *Orchestrator {
	t.Helper()
	cfg := testOrchestratorConfig()
	norm := normalizer.New(cfg)
	return New(cfg, norm, source, nlp.New(cfg), behavior.New(cfg), scoring.New(cfg), store, zerolog.Nop())
}

func sampleBatch() models.ReviewBatch {
	return models.ReviewBatch{Reviews: []models.Review{
		{ReviewID: "1", Rating: 5, Text: "Solid product, works well and arrived quickly."},
		{ReviewID: "2", Rating: 4, Text: "Good value, does what it says."},
	}}
}

func TestAnalyze_CacheHitSkipsSourceAndAnalyzers(t *testing.T) {
	store := reportstore.NewMemory(0)
	defer store.Close()

	source := &spySource{batch: sampleBatch()}
	orch := buildOrchestrator(t, source, store)

	first, err := orch.Analyze(context.Background(), "https://example.com/p?a=1", false)
	require.NoError(t, err)
	require.False(t, first.Cached)
	require.Equal(t, int32(1), atomic.LoadInt32(&source.calls))

	// The report is persisted in the background; wait for the write to land.
	fp := orch.normalizer.Fingerprint(orch.normalizer.Normalize("https://example.com/p?a=1"))
	require.Eventually(t, func() bool {
		_, err := store.Get(context.Background(), fp)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	second, err := orch.Analyze(context.Background(), "https://example.com/p?a=1", false)
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.Report.TrustScore, second.Report.TrustScore)
	require.Equal(t, int32(1), atomic.LoadInt32(&source.calls))
}

func TestAnalyze_ForceRefreshBypassesCache(t *testing.T) {
	store := reportstore.NewMemory(0)
	defer store.Close()

	source := &spySource{batch: sampleBatch()}
	orch := buildOrchestrator(t, source, store)

	_, err := orch.Analyze(context.Background(), "https://example.com/p", false)
	require.NoError(t, err)

	_, err = orch.Analyze(context.Background(), "https://example.com/p", true)
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&source.calls))
}

func TestAnalyze_SourceFailureIsUpstreamUnavailable(t *testing.T) {
	store := reportstore.NewMemory(0)
	defer store.Close()

	source := &spySource{err: errors.New("boom")}
	orch := buildOrchestrator(t, source, store)

	_, err := orch.Analyze(context.Background(), "https://example.com/p", false)
	require.Error(t, err)

	var orchErr *Error
	require.ErrorAs(t, err, &orchErr)
	require.Equal(t, KindUpstreamUnavailable, orchErr.Kind)
}

func TestAnalyze_EmptyURLIsInvalidInput(t *testing.T) {
	store := reportstore.NewMemory(0)
	defer store.Close()

	orch := buildOrchestrator(t, &spySource{}, store)
	_, err := orch.Analyze(context.Background(), "", false)

	var orchErr *Error
	require.ErrorAs(t, err, &orchErr)
	require.Equal(t, KindInvalidInput, orchErr.Kind)
}
