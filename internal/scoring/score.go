// Package scoring fuses NLP, behavior, and statistical signals into the
// final TrustReport: the ScoringEngine of the analysis pipeline.
package scoring

import (
	"math"

	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/pkg/models"
)

// Engine is a pure function of its three inputs; it holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	cfg *config.Config
}

// New builds an Engine bound to cfg's weights and thresholds.
func New(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Score fuses nlpReport and behaviorReport into a TrustReport per spec
// section 4.4: weighted fusion, statistical score, confidence, risk band,
// recommendation, and ranked insights.
func (e *Engine) Score(nlpReport models.NLPReport, behaviorReport models.BehaviorReport) models.TrustReport {
	w := e.cfg.Weights
	t := e.cfg.Thresholds

	nlpFake := nlpReport.Aggregate.NLPFakeScore
	behaviorFake := behaviorReport.Aggregate.BehaviorFakeScore
	statistical := statisticalScore(behaviorReport.RatingDistribution, t)

	weightedFake := w.FusionNLP*nlpFake + w.FusionBehavior*behaviorFake + w.FusionStatistical*statistical
	trustScore := math.Round(clamp(100-weightedFake, 0, 100))

	breakdown := models.ScoreBreakdown{
		NLPContribution:         w.FusionNLP * nlpFake,
		BehaviorContribution:    w.FusionBehavior * behaviorFake,
		StatisticalContribution: w.FusionStatistical * statistical,
		FinalScore:              trustScore,
	}

	confidence := confidenceScore(nlpFake, behaviorFake, behaviorReport.Aggregate, t)
	risk := riskLevel(int(trustScore), t)
	recommendation := recommendationFor(risk)

	insights := generateInsights(nlpReport, behaviorReport, t)

	totalReviews := nlpReport.TotalReviews
	if behaviorReport.TotalReviews > totalReviews {
		totalReviews = behaviorReport.TotalReviews
	}

	return models.TrustReport{
		SchemaVersion:         models.SchemaVersion,
		TrustScore:            int(trustScore),
		FakeReviewsPercentage: 100 - trustScore,
		RiskLevel:             risk,
		ScoreBreakdown:        breakdown,
		Insights:              insights,
		TotalReviewsAnalyzed:  totalReviews,
		Recommendation:        recommendation,
		Confidence:            confidence,
	}
}

// statisticalScore implements spec section 4.4's bonus ladder over the
// rating distribution, clamped to [0,100].
func statisticalScore(dist models.RatingDistribution, t config.Thresholds) float64 {
	if dist.Total == 0 {
		return 0
	}

	var score float64
	fiveStarRatio := float64(dist.FiveStar) / float64(dist.Total)

	switch {
	case fiveStarRatio > t.StatFiveStarHigh:
		score += t.StatFiveStarHighBonus
	case fiveStarRatio > t.StatFiveStarMid:
		score += t.StatFiveStarMidBonus
	case fiveStarRatio > t.StatFiveStarLow:
		score += t.StatFiveStarLowBonus
	}

	switch {
	case dist.PolarizationScore > t.StatPolarizationHigh:
		score += t.StatPolarizationHighBonus
	case dist.PolarizationScore > t.StatPolarizationLow:
		score += t.StatPolarizationLowBonus
	}

	middleRatio := float64(dist.TwoStar+dist.ThreeStar+dist.FourStar) / float64(dist.Total)
	if middleRatio < t.StatMiddleShareMax {
		score += t.StatMiddleShareBonus
	}

	if dist.Total < t.StatSmallSampleMaxTotal && fiveStarRatio > t.StatSmallSampleFiveStar {
		score += t.StatSmallSampleBonus
	}

	return clamp(score, 0, 100)
}

// confidenceScore implements spec section 4.4's additive confidence model.
func confidenceScore(nlpFake, behaviorFake float64, agg models.BehaviorAggregate, t config.Thresholds) float64 {
	confidence := t.ConfidenceBaseline

	total := agg.TotalReviews
	switch {
	case total >= 100:
		confidence += t.ConfidenceTotal100
	case total >= 50:
		confidence += t.ConfidenceTotal50
	case total >= 20:
		confidence += t.ConfidenceTotal20
	}

	diff := abs(nlpFake - behaviorFake)
	switch {
	case diff < t.ConfidenceAgreementCloseDelta:
		confidence += t.ConfidenceAgreementClose
	case diff < t.ConfidenceAgreementFarDelta:
		confidence += t.ConfidenceAgreementFar
	}

	if agg.VerificationRate > t.ConfidenceVerificationRate*100 {
		confidence += t.ConfidenceVerification
	}

	return clamp(confidence, 0, 1)
}

// riskLevel implements spec section 4.4's trust-score bands.
func riskLevel(trustScore int, t config.Thresholds) string {
	switch {
	case trustScore >= t.RiskLowTrust:
		return models.RiskLow
	case trustScore >= t.RiskMediumTrust:
		return models.RiskMedium
	case trustScore >= t.RiskHighTrust:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

func recommendationFor(risk string) string {
	switch risk {
	case models.RiskLow:
		return "Recommended: reviews for this product show strong signs of authenticity."
	case models.RiskMedium:
		return "Caution: most reviews appear genuine, but some signals warrant a closer look."
	case models.RiskHigh:
		return "Warning: a significant share of reviews show signs of manipulation."
	default:
		return "Avoid relying on this product's reviews: strong evidence of fake review activity."
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
