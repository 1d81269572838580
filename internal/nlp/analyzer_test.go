package nlp

import (
	"context"
	"testing"

	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/pkg/models"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Weights:    testWeights(),
		Thresholds: testThresholds(),
		Lexicons:   testLexicons(),
	}
}

func testWeights() config.Weights {
	return config.Weights{
		SentimentMethodA: 0.6, SentimentMethodB: 0.4,
		FakePromotional: 0.25, FakeGeneric: 0.20, FakeQuality: -0.15,
		FakeSentimentMismatch: 0.30, FakeTextFeatures: 0.15, FakeSpamIndicators: 0.15,
	}
}

func testThresholds() config.Thresholds {
	return config.Thresholds{
		SentimentPositive: 0.15, SentimentNegative: -0.15,
		ConfidenceMin: 0.5, ConfidenceMax: 0.95,
		MismatchRatingHigh: 4.0, MismatchRatingLow: 2.0,
		MismatchStrong: 0.7, MismatchStrongPen: 0.8,
		MismatchModerate: 0.5, MismatchModeratePen: 0.4,
		ShortTextWords: 10, CapsRatioMax: 0.3, ExclamationMax: 5,
		LexicalDiversityMin: 0.4, LexicalDiversityMinWords: 20,
		SpamPenalty:              0.9,
		TFIDFMaxFeatures:         500,
		TFIDFNGramMin:            1,
		TFIDFNGramMax:            3,
		TFIDFMinDF:               1,
		SimilarityThreshold:      0.75,
		JaccardFallbackThreshold: 0.70,
		HighRiskFakeProbability:  0.6,
		LengthIdealMin:           50,
		LengthIdealMax:           200,
		LengthScoreIdeal:         1.0,
		LengthScoreNear:          0.7,
		LengthScoreBroad:         0.5,
		LengthScoreOther:         0.3,
		ReadabilityWordLenTarget:     5.5,
		ReadabilitySentenceLenTarget: 15,
	}
}

func testLexicons() config.Lexicons {
	return config.Lexicons{
		PositiveWords: map[string]float64{"great": 0.6, "good": 0.4, "love": 0.7},
		NegativeWords: map[string]float64{"terrible": -0.8, "broken": -0.6, "worst": -0.9},
		IntensifierWords: map[string]float64{"very": 1.3},
		PromotionalPhrases: []string{"highly recommend", "must buy"},
		GenericPhrases:     []string{"good product", "great product"},
		SpamPatterns:       []string{`whatsapp`, `contact\s+\w*\s*\d+`},
	}
}

func TestAnalyze_RatingSentimentMismatch(t *testing.T) {
	cfg := testConfig()
	a := New(cfg)

	batch := models.ReviewBatch{Reviews: []models.Review{
		{ReviewID: "r1", Rating: 5.0, Text: "terrible, broken, worst ever"},
	}}

	report, err := a.Analyze(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, report.Analyses, 1)

	an := report.Analyses[0]
	require.Contains(t, an.Flags, "sentiment_rating_mismatch")
	require.GreaterOrEqual(t, an.FakeProbability, 0.4)
}

func TestAnalyze_DeterministicAndClustersDuplicates(t *testing.T) {
	cfg := testConfig()
	a := New(cfg)

	batch := models.ReviewBatch{Reviews: []models.Review{
		{ReviewID: "r1", Rating: 5, Text: "great product great product great product"},
		{ReviewID: "r2", Rating: 5, Text: "great product great product great product"},
		{ReviewID: "r3", Rating: 5, Text: "totally different review about something else entirely unrelated"},
	}}

	report1, err := a.Analyze(context.Background(), batch)
	require.NoError(t, err)
	report2, err := a.Analyze(context.Background(), batch)
	require.NoError(t, err)
	require.Equal(t, report1, report2)

	require.Len(t, report1.SimilarityClusters, 1)
	cluster := report1.SimilarityClusters[0]
	require.ElementsMatch(t, []string{"r1", "r2"}, cluster.ReviewIDs)

	seen := map[string]int{}
	for _, c := range report1.SimilarityClusters {
		for _, id := range c.ReviewIDs {
			seen[id]++
		}
	}
	for id, count := range seen {
		require.Equal(t, 1, count, "review_id %s appears in more than one cluster", id)
	}
}

func TestAnalyze_EmptyBatch(t *testing.T) {
	cfg := testConfig()
	a := New(cfg)

	report, err := a.Analyze(context.Background(), models.ReviewBatch{})
	require.NoError(t, err)
	require.Equal(t, 0, report.TotalReviews)
	require.Empty(t, report.SimilarityClusters)
}
