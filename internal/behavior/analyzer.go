// Package behavior implements temporal, reviewer, and rating-distribution
// scoring: the BehaviorAnalyzer of the analysis pipeline.
package behavior

import (
	"context"
	"time"

	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/pkg/models"
)

// Analyzer is deterministic and pure over its input batch; it holds no
// mutable state and is safe for concurrent use across batches. The one
// exception is clock, used as "now" for the recency-bias window, which
// tests override to keep fixtures deterministic.
type Analyzer struct {
	cfg   *config.Config
	clock func() time.Time
}

// New builds an Analyzer bound to cfg's thresholds and weights.
func New(cfg *config.Config) *Analyzer {
	return &Analyzer{cfg: cfg, clock: time.Now}
}

// NewWithClock builds an Analyzer that uses clock instead of time.Now for
// the recency-bias reference point, for deterministic tests.
func NewWithClock(cfg *config.Config, clock func() time.Time) *Analyzer {
	return &Analyzer{cfg: cfg, clock: clock}
}

// Analyze runs the temporal, reviewer, and rating detectors over
// batch.Reviews and folds their outputs into a BehaviorAggregate.
func (a *Analyzer) Analyze(ctx context.Context, batch models.ReviewBatch) (models.BehaviorReport, error) {
	if err := ctx.Err(); err != nil {
		return models.BehaviorReport{}, err
	}

	temporal := detectTemporal(batch.Reviews, a.cfg.Thresholds, a.clock())
	reviewer := detectReviewerPatterns(batch.Reviews, a.cfg.Thresholds)
	dist := ratingDistribution(batch.Reviews, a.cfg.Thresholds)

	report := models.BehaviorReport{
		TotalReviews:       len(batch.Reviews),
		TemporalPatterns:   temporal,
		ReviewerPatterns:   reviewer,
		RatingDistribution: dist,
		Aggregate:          computeAggregate(batch.Reviews, temporal, reviewer, dist, a.cfg.Weights),
	}
	return report, nil
}

// computeAggregate implements spec section 4.3's behavior_fake_score
// formula: a 0.4/0.3/0.3 weighted blend of temporal, reviewer, and rating
// suspicion, each the mean of its detector's pattern suspicion scores.
func computeAggregate(reviews []models.Review, temporal []models.TemporalPattern, reviewer []models.ReviewerPattern, dist models.RatingDistribution, w config.Weights) models.BehaviorAggregate {
	temporalSuspicion := meanTemporalSuspicion(temporal)
	reviewerSuspicion := meanReviewerSuspicion(reviewer)
	ratingSuspicion := ratingSuspicionScore(dist)

	behaviorScore := (temporalSuspicion*w.BehaviorTemporal +
		reviewerSuspicion*w.BehaviorReviewer +
		ratingSuspicion*w.BehaviorRating) * 100

	var verified int
	for _, r := range reviews {
		if r.VerifiedPurchase {
			verified++
		}
	}
	verificationRate := 0.0
	if len(reviews) > 0 {
		verificationRate = float64(verified) / float64(len(reviews)) * 100
	}

	var duplicateReviewers int
	for _, p := range reviewer {
		if p.ReviewCount > 1 && p.ReviewerName != models.AggregateUnverifiedReviewer {
			duplicateReviewers++
		}
	}

	fiveStarConcentration := 0.0
	if dist.Total > 0 {
		fiveStarConcentration = float64(dist.FiveStar) / float64(dist.Total) * 100
	}

	var hasBurst, hasSpike, hasRecency bool
	for _, p := range temporal {
		switch p.PatternType {
		case models.PatternBurst:
			hasBurst = true
		case models.PatternRatingSpike:
			hasSpike = true
		case models.PatternRecencyBias:
			hasRecency = true
		}
	}

	return models.BehaviorAggregate{
		TemporalSuspicion:     temporalSuspicion,
		ReviewerSuspicion:     reviewerSuspicion,
		RatingSuspicion:       ratingSuspicion,
		BehaviorFakeScore:     behaviorScore,
		HasBurstPattern:       hasBurst,
		HasRatingSpike:        hasSpike,
		HasRecencyBias:        hasRecency,
		DuplicateReviewers:    duplicateReviewers,
		VerificationRate:      verificationRate,
		PolarizationDetected:  dist.PolarizationScore > 0.5,
		FiveStarConcentration: fiveStarConcentration,
		TotalReviews:          len(reviews),
	}
}

func meanTemporalSuspicion(patterns []models.TemporalPattern) float64 {
	if len(patterns) == 0 {
		return 0
	}
	var sum float64
	for _, p := range patterns {
		sum += p.SuspicionScore
	}
	return sum / float64(len(patterns))
}

func meanReviewerSuspicion(patterns []models.ReviewerPattern) float64 {
	if len(patterns) == 0 {
		return 0
	}
	var sum float64
	for _, p := range patterns {
		sum += p.SuspicionScore
	}
	return sum / float64(len(patterns))
}

// ratingSuspicionScore is max(five_star_ratio if it exceeds 0.7,
// polarization_score) per spec section 4.3. The 0.7 cutoff is fixed and
// does not follow Thresholds.PolarizationThreshold.
func ratingSuspicionScore(dist models.RatingDistribution) float64 {
	if dist.Total == 0 {
		return 0
	}
	fiveStarRatio := float64(dist.FiveStar) / float64(dist.Total)
	suspicion := 0.0
	if fiveStarRatio > 0.7 {
		suspicion = clamp(fiveStarRatio, 0, 1)
	}
	if dist.PolarizationScore > suspicion {
		suspicion = dist.PolarizationScore
	}
	return suspicion
}
