package behavior

import (
	"fmt"

	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/pkg/models"
)

// detectReviewerPatterns groups reviews by reviewer name and flags anyone
// posting more than once, plus an aggregate pattern for the unverified
// cohort when it exceeds the configured ratio. Grouping order follows
// first appearance in the batch for deterministic output.
func detectReviewerPatterns(reviews []models.Review, t config.Thresholds) []models.ReviewerPattern {
	groups := map[string][]models.Review{}
	var order []string
	for _, r := range reviews {
		if r.ReviewerName == "" {
			continue
		}
		if _, ok := groups[r.ReviewerName]; !ok {
			order = append(order, r.ReviewerName)
		}
		groups[r.ReviewerName] = append(groups[r.ReviewerName], r)
	}

	var patterns []models.ReviewerPattern
	for _, name := range order {
		group := groups[name]
		if len(group) < t.ReviewerMinCount {
			continue
		}
		patterns = append(patterns, reviewerPattern(name, group, t))
	}

	if p, ok := unverifiedPattern(reviews, t); ok {
		patterns = append(patterns, p)
	}

	return patterns
}

func reviewerPattern(name string, reviews []models.Review, t config.Thresholds) models.ReviewerPattern {
	var flags []string
	var suspicion float64

	n := len(reviews)
	flags = append(flags, fmt.Sprintf("multiple_reviews_%dx", n))
	bump := float64(n) * t.ReviewerMultiplierUnit
	if bump > t.ReviewerMultiplierCap {
		bump = t.ReviewerMultiplierCap
	}
	suspicion += bump

	avg := averageRating(reviews)
	var variance float64
	allFive := true
	for _, r := range reviews {
		d := r.Rating - avg
		variance += d * d
		if r.Rating != 5.0 {
			allFive = false
		}
	}
	variance /= float64(n)

	if variance == 0 {
		flags = append(flags, "identical_ratings")
		suspicion += t.ReviewerIdenticalRatingsPenalty
	}
	if allFive {
		flags = append(flags, "all_five_stars")
		suspicion += t.ReviewerAllFiveStarsPenalty
	}

	return models.ReviewerPattern{
		ReviewerName:   name,
		ReviewCount:    n,
		AverageRating:  avg,
		RatingVariance: variance,
		SuspicionScore: clamp(suspicion, 0, 1),
		Flags:          flags,
	}
}

func unverifiedPattern(reviews []models.Review, t config.Thresholds) (models.ReviewerPattern, bool) {
	if len(reviews) == 0 {
		return models.ReviewerPattern{}, false
	}
	var unverified int
	for _, r := range reviews {
		if !r.VerifiedPurchase {
			unverified++
		}
	}
	ratio := float64(unverified) / float64(len(reviews))
	if ratio <= t.UnverifiedRatioThreshold {
		return models.ReviewerPattern{}, false
	}

	return models.ReviewerPattern{
		ReviewerName:   models.AggregateUnverifiedReviewer,
		ReviewCount:    unverified,
		AverageRating:  0,
		RatingVariance: 0,
		SuspicionScore: clamp(ratio, 0, 1),
		Flags:          []string{fmt.Sprintf("high_unverified_ratio_%.0f%%", ratio*100)},
	}, true
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

// ratingDistribution builds the integer star histogram and polarization
// score from spec section 4.3: polarization is the extreme-rating share
// when it exceeds the configured threshold, else zero.
func ratingDistribution(reviews []models.Review, t config.Thresholds) models.RatingDistribution {
	var dist models.RatingDistribution
	for _, r := range reviews {
		switch roundRating(r.Rating) {
		case 1:
			dist.OneStar++
		case 2:
			dist.TwoStar++
		case 3:
			dist.ThreeStar++
		case 4:
			dist.FourStar++
		case 5:
			dist.FiveStar++
		}
	}
	dist.Total = len(reviews)
	if dist.Total == 0 {
		return dist
	}

	extreme := float64(dist.OneStar+dist.FiveStar) / float64(dist.Total)
	if extreme > t.PolarizationThreshold {
		dist.PolarizationScore = extreme
	}
	return dist
}

func roundRating(r float64) int {
	return int(r + 0.5)
}
