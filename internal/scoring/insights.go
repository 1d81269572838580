package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/pkg/models"
)

var severityOrder = map[string]int{
	models.SeverityHigh:   0,
	models.SeverityMedium: 1,
	models.SeverityLow:    2,
}

// generateInsights implements spec section 4.4: collect every triggered
// insight from the NLP and behavior aggregates, sort non-increasing by
// severity with a stable tiebreak on input order, and cap at MaxInsights.
func generateInsights(nlpReport models.NLPReport, behaviorReport models.BehaviorReport, t config.Thresholds) []models.Insight {
	var insights []models.Insight
	insights = append(insights, nlpInsights(nlpReport)...)
	insights = append(insights, behaviorInsights(behaviorReport)...)
	insights = append(insights, statisticalInsights(behaviorReport)...)

	sort.SliceStable(insights, func(i, j int) bool {
		return severityOrder[insights[i].Severity] < severityOrder[insights[j].Severity]
	})

	if len(insights) > t.MaxInsights {
		insights = insights[:t.MaxInsights]
	}
	return insights
}

func nlpInsights(report models.NLPReport) []models.Insight {
	var insights []models.Insight
	agg := report.Aggregate

	switch {
	case agg.AverageFakeProbability > 0.6:
		insights = append(insights, models.Insight{
			Category:    models.InsightRedFlag,
			Severity:    models.SeverityHigh,
			Title:       "High Fake Review Probability",
			Description: fmt.Sprintf("%.0f%% average fake probability detected across reviews", agg.AverageFakeProbability*100),
			Evidence:    fmt.Sprintf("NLP analysis flagged %d high-risk reviews", agg.HighRiskReviewsCount),
		})
	case agg.AverageFakeProbability > 0.4:
		insights = append(insights, models.Insight{
			Category:    models.InsightWarning,
			Severity:    models.SeverityMedium,
			Title:       "Moderate Fake Review Risk",
			Description: fmt.Sprintf("%.0f%% average fake probability detected", agg.AverageFakeProbability*100),
			Evidence:    "Multiple promotional patterns and template-style reviews found",
		})
	}

	if agg.SimilarityClustersCount > 0 && agg.DuplicateReviewsPercent > 10 {
		insights = append(insights, models.Insight{
			Category:    models.InsightRedFlag,
			Severity:    models.SeverityHigh,
			Title:       "Duplicate Reviews Detected",
			Description: fmt.Sprintf("%.1f%% of reviews are near-duplicates", agg.DuplicateReviewsPercent),
			Evidence:    fmt.Sprintf("Found %d clusters of similar reviews", agg.SimilarityClustersCount),
		})
	}

	if topFlag, count := mostCommonFlag(agg.CommonFlags); count > 5 {
		insights = append(insights, models.Insight{
			Category:    models.InsightWarning,
			Severity:    models.SeverityMedium,
			Title:       fmt.Sprintf("Repeated Pattern: %s", titleCase(topFlag)),
			Description: fmt.Sprintf("Detected %d times across reviews", count),
			Evidence:    "Consistent pattern suggests coordinated activity",
		})
	}

	if positive, total := agg.SentimentDistribution["positive"], sumCounts(agg.SentimentDistribution); total > 0 {
		ratio := float64(positive) / float64(total)
		if ratio > 0.85 {
			insights = append(insights, models.Insight{
				Category:    models.InsightWarning,
				Severity:    models.SeverityLow,
				Title:       "Unusually Positive Sentiment",
				Description: fmt.Sprintf("%.0f%% positive reviews (natural range: 60-75%%)", ratio*100),
				Evidence:    "May indicate selection bias or fake positive reviews",
			})
		}
	}

	if report.TotalReviews > 0 && agg.AverageQuality < 0.4 {
		insights = append(insights, models.Insight{
			Category:    models.InsightWarning,
			Severity:    models.SeverityMedium,
			Title:       "Low Review Quality",
			Description: fmt.Sprintf("Average text quality score: %.2f/1.0", agg.AverageQuality),
			Evidence:    "Many reviews lack detail or informational content",
		})
	}

	return insights
}

func behaviorInsights(report models.BehaviorReport) []models.Insight {
	var insights []models.Insight
	agg := report.Aggregate

	if agg.HasBurstPattern {
		for _, p := range report.TemporalPatterns {
			if p.PatternType == models.PatternBurst {
				insights = append(insights, models.Insight{
					Category:    models.InsightRedFlag,
					Severity:    models.SeverityHigh,
					Title:       "Review Burst Detected",
					Description: p.Description,
					Evidence:    fmt.Sprintf("Suspicion score: %.2f", p.SuspicionScore),
				})
				break
			}
		}
	}

	if agg.HasRatingSpike {
		insights = append(insights, models.Insight{
			Category:    models.InsightRedFlag,
			Severity:    models.SeverityHigh,
			Title:       "Sudden Rating Spike",
			Description: "Unusual sudden increase in average rating",
			Evidence:    "May indicate coordinated fake positive reviews",
		})
	}

	if agg.HasRecencyBias {
		insights = append(insights, models.Insight{
			Category:    models.InsightWarning,
			Severity:    models.SeverityMedium,
			Title:       "Recency Bias Detected",
			Description: "Majority of reviews posted recently",
			Evidence:    "Possible ongoing review campaign",
		})
	}

	switch {
	case agg.VerificationRate < 30:
		insights = append(insights, models.Insight{
			Category:    models.InsightRedFlag,
			Severity:    models.SeverityHigh,
			Title:       "Very Low Verification Rate",
			Description: fmt.Sprintf("Only %.0f%% verified purchases", agg.VerificationRate),
			Evidence:    "Most reviews not from verified buyers",
		})
	case agg.VerificationRate < 50:
		insights = append(insights, models.Insight{
			Category:    models.InsightWarning,
			Severity:    models.SeverityMedium,
			Title:       "Low Verification Rate",
			Description: fmt.Sprintf("%.0f%% verified purchases (typical: 70-80%%)", agg.VerificationRate),
			Evidence:    "Below-average verification ratio",
		})
	}

	if agg.DuplicateReviewers > 0 {
		insights = append(insights, models.Insight{
			Category:    models.InsightWarning,
			Severity:    models.SeverityMedium,
			Title:       "Duplicate Reviewers Found",
			Description: fmt.Sprintf("%d reviewers posted multiple times", agg.DuplicateReviewers),
			Evidence:    "Same users leaving multiple reviews",
		})
	}

	if agg.PolarizationDetected {
		insights = append(insights, models.Insight{
			Category:    models.InsightWarning,
			Severity:    models.SeverityMedium,
			Title:       "Rating Polarization",
			Description: "Unnatural distribution with mostly 5-star and 1-star reviews",
			Evidence:    "Typical products have a bell-curve distribution",
		})
	}

	return insights
}

func statisticalInsights(report models.BehaviorReport) []models.Insight {
	var insights []models.Insight
	agg := report.Aggregate
	dist := report.RatingDistribution

	switch {
	case agg.FiveStarConcentration > 85:
		insights = append(insights, models.Insight{
			Category:    models.InsightRedFlag,
			Severity:    models.SeverityHigh,
			Title:       "Extreme Five-Star Concentration",
			Description: fmt.Sprintf("%.0f%% of reviews are 5-star", agg.FiveStarConcentration),
			Evidence:    "Natural products typically have 40-60% five-star reviews",
		})
	case agg.FiveStarConcentration > 70:
		insights = append(insights, models.Insight{
			Category:    models.InsightWarning,
			Severity:    models.SeverityMedium,
			Title:       "High Five-Star Concentration",
			Description: fmt.Sprintf("%.0f%% five-star reviews (above typical range)", agg.FiveStarConcentration),
			Evidence:    "May indicate fake positive reviews",
		})
	}

	if dist.Total < 20 && agg.FiveStarConcentration > 80 {
		insights = append(insights, models.Insight{
			Category:    models.InsightWarning,
			Severity:    models.SeverityLow,
			Title:       "Limited Sample Size",
			Description: fmt.Sprintf("Analysis based on only %d reviews", dist.Total),
			Evidence:    "Small sample with high ratings may be misleading",
		})
	}

	return insights
}

func mostCommonFlag(flags map[string]int) (string, int) {
	var top string
	var max int
	for flag, count := range flags {
		if count > max || (count == max && flag < top) {
			top, max = flag, count
		}
	}
	return top, max
}

func sumCounts(m map[string]int) int {
	var total int
	for _, v := range m {
		total += v
	}
	return total
}

func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
