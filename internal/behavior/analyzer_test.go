package behavior

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/pkg/models"
	"github.com/stretchr/testify/require"
)

func testThresholds() config.Thresholds {
	return config.Thresholds{
		BurstWindows:          []int{1, 3, 7, 30},
		BurstMinAbsolute:      10,
		BurstMinFraction:      0.3,
		RatingSpikeMinReviews: 20,
		RatingSpikeMinDays:    7,
		RatingSpikeMinPerWeek: 5,
		RatingSpikeMinDelta:   1.0,
		RecencyWindowDays:     30,
		RecencyMinRatio:       0.5,
		RecencyMinTotal:       20,
		ReviewerMinCount:                2,
		ReviewerMultiplierCap:           0.5,
		ReviewerMultiplierUnit:          0.2,
		ReviewerIdenticalRatingsPenalty: 0.4,
		ReviewerAllFiveStarsPenalty:     0.3,
		UnverifiedRatioThreshold:        0.7,
		PolarizationThreshold:           0.7,
	}
}

func testWeights() config.Weights {
	return config.Weights{BehaviorTemporal: 0.4, BehaviorReviewer: 0.3, BehaviorRating: 0.3}
}

func buildBatch(burst bool) models.ReviewBatch {
	var reviews []models.Review
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 30; i++ {
		var d time.Time
		if burst {
			d = now.Add(time.Duration(i) * time.Hour)
		} else {
			d = now.AddDate(0, 0, i*6)
		}
		reviews = append(reviews, models.Review{
			ReviewID: fmt.Sprintf("burst-%d", i), Rating: 5, Date: d.Format("2006-01-02"),
			VerifiedPurchase: true,
		})
	}
	for i := 0; i < 70; i++ {
		d := now.AddDate(0, 0, -i*2)
		reviews = append(reviews, models.Review{
			ReviewID: fmt.Sprintf("spread-%d", i), Rating: 4, Date: d.Format("2006-01-02"),
			VerifiedPurchase: true,
		})
	}
	return models.ReviewBatch{Reviews: reviews}
}

func TestAnalyze_TemporalBurst(t *testing.T) {
	cfg := &config.Config{Thresholds: testThresholds(), Weights: testWeights()}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewWithClock(cfg, func() time.Time { return now })

	burstReport, err := a.Analyze(context.Background(), buildBatch(true))
	require.NoError(t, err)
	require.True(t, burstReport.Aggregate.HasBurstPattern)

	uniformReport, err := a.Analyze(context.Background(), buildBatch(false))
	require.NoError(t, err)

	require.GreaterOrEqual(t, burstReport.Aggregate.BehaviorFakeScore, uniformReport.Aggregate.BehaviorFakeScore+10)
}

func TestRatingDistribution_SumsToTotal(t *testing.T) {
	thresholds := testThresholds()
	reviews := []models.Review{
		{Rating: 1}, {Rating: 1}, {Rating: 3}, {Rating: 5}, {Rating: 5}, {Rating: 5},
	}
	dist := ratingDistribution(reviews, thresholds)
	require.Equal(t, dist.Total, dist.OneStar+dist.TwoStar+dist.ThreeStar+dist.FourStar+dist.FiveStar)
}

func TestReviewerPatterns_MultipleReviewsFlagged(t *testing.T) {
	thresholds := testThresholds()
	reviews := []models.Review{
		{ReviewerName: "bot1", Rating: 5, VerifiedPurchase: true},
		{ReviewerName: "bot1", Rating: 5, VerifiedPurchase: true},
		{ReviewerName: "bot1", Rating: 5, VerifiedPurchase: true},
	}
	patterns := detectReviewerPatterns(reviews, thresholds)
	require.Len(t, patterns, 1)
	require.Contains(t, patterns[0].Flags, "identical_ratings")
	require.Contains(t, patterns[0].Flags, "all_five_stars")
}
