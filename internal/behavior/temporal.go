package behavior

import (
	"fmt"
	"sort"
	"time"

	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/pkg/models"
)

type datedReview struct {
	date   time.Time
	review models.Review
}

// detectTemporal runs the burst, rating-spike, and recency-bias detectors
// of spec section 4.3 over every review with a parseable date. now is the
// reference point for the recency-bias window.
func detectTemporal(reviews []models.Review, t config.Thresholds, now time.Time) []models.TemporalPattern {
	var dated []datedReview
	for _, r := range reviews {
		if d, ok := parseDate(r.Date); ok {
			dated = append(dated, datedReview{date: d, review: r})
		}
	}
	if len(dated) == 0 {
		return nil
	}

	sort.Slice(dated, func(i, j int) bool { return dated[i].date.Before(dated[j].date) })

	var patterns []models.TemporalPattern
	patterns = append(patterns, detectBursts(dated, t)...)
	patterns = append(patterns, detectRatingSpikes(dated, t)...)
	if p, ok := detectRecencyBias(dated, t, now); ok {
		patterns = append(patterns, p)
	}
	return patterns
}

// detectBursts slides a window of each configured size over the
// date-sorted reviews and emits the earliest window per size that meets
// the minimum-review bar.
func detectBursts(dated []datedReview, t config.Thresholds) []models.TemporalPattern {
	var patterns []models.TemporalPattern
	total := len(dated)
	minReviews := float64(t.BurstMinAbsolute)
	if frac := float64(total) * t.BurstMinFraction; frac > minReviews {
		minReviews = frac
	}

	for _, days := range t.BurstWindows {
		for i := range dated {
			windowEnd := dated[i].date.AddDate(0, 0, days)
			var window []datedReview
			for j := i; j < len(dated); j++ {
				if !dated[j].date.After(windowEnd) {
					window = append(window, dated[j])
				} else {
					break
				}
			}
			if float64(len(window)) < minReviews {
				continue
			}

			var ratingSum float64
			for _, w := range window {
				ratingSum += w.review.Rating
			}
			avgRating := ratingSum / float64(len(window))
			concentration := float64(len(window)) / float64(total)
			suspicion := concentration * (30.0 / float64(days))
			if suspicion > 1 {
				suspicion = 1
			}

			label := fmt.Sprintf("%d day", days)
			if days > 1 {
				label += "s"
			}

			patterns = append(patterns, models.TemporalPattern{
				PatternType:    models.PatternBurst,
				TimeWindow:     label,
				ReviewCount:    len(window),
				AverageRating:  avgRating,
				SuspicionScore: suspicion,
				Description:    fmt.Sprintf("%d reviews posted within %s", len(window), label),
			})
			break
		}
	}
	return patterns
}

// detectRatingSpikes groups reviews into weeks relative to the earliest
// review and flags any consecutive week pair whose average rating jumps
// by at least the configured delta.
func detectRatingSpikes(dated []datedReview, t config.Thresholds) []models.TemporalPattern {
	if len(dated) < t.RatingSpikeMinReviews {
		return nil
	}
	totalDays := int(dated[len(dated)-1].date.Sub(dated[0].date).Hours() / 24)
	if totalDays < t.RatingSpikeMinDays {
		return nil
	}

	weeks := map[int][]models.Review{}
	var weekNums []int
	seen := map[int]bool{}
	first := dated[0].date
	for _, d := range dated {
		week := int(d.date.Sub(first).Hours() / 24 / 7)
		weeks[week] = append(weeks[week], d.review)
		if !seen[week] {
			seen[week] = true
			weekNums = append(weekNums, week)
		}
	}
	sort.Ints(weekNums)

	var patterns []models.TemporalPattern
	for i := 0; i < len(weekNums)-1; i++ {
		w1 := weeks[weekNums[i]]
		w2 := weeks[weekNums[i+1]]
		if len(w1) < t.RatingSpikeMinPerWeek || len(w2) < t.RatingSpikeMinPerWeek {
			continue
		}
		avg1 := averageRating(w1)
		avg2 := averageRating(w2)
		if avg2-avg1 >= t.RatingSpikeMinDelta {
			suspicion := (avg2 - avg1) / 2
			if suspicion > 1 {
				suspicion = 1
			}
			patterns = append(patterns, models.TemporalPattern{
				PatternType:    models.PatternRatingSpike,
				TimeWindow:     fmt.Sprintf("week %d to %d", weekNums[i], weekNums[i+1]),
				ReviewCount:    len(w2),
				AverageRating:  avg2,
				SuspicionScore: suspicion,
				Description:    fmt.Sprintf("Sudden rating increase from %.1f to %.1f stars", avg1, avg2),
			})
		}
	}
	return patterns
}

// detectRecencyBias flags a batch where more than the configured fraction
// of reviews landed within the last window of days, among batches large
// enough to be meaningful. now is the reference "today", not the date of
// the most recent review in the batch.
func detectRecencyBias(dated []datedReview, t config.Thresholds, now time.Time) (models.TemporalPattern, bool) {
	total := len(dated)
	if total < t.RecencyMinTotal {
		return models.TemporalPattern{}, false
	}

	cutoff := now.AddDate(0, 0, -t.RecencyWindowDays)

	var recent []datedReview
	for _, d := range dated {
		if d.date.After(cutoff) {
			recent = append(recent, d)
		}
	}
	ratio := float64(len(recent)) / float64(total)
	if ratio <= t.RecencyMinRatio {
		return models.TemporalPattern{}, false
	}

	suspicion := ratio
	if suspicion > 1 {
		suspicion = 1
	}

	reviews := make([]models.Review, 0, len(recent))
	for _, r := range recent {
		reviews = append(reviews, r.review)
	}

	return models.TemporalPattern{
		PatternType:    models.PatternRecencyBias,
		TimeWindow:     fmt.Sprintf("last %d days", t.RecencyWindowDays),
		ReviewCount:    len(recent),
		AverageRating:  averageRating(reviews),
		SuspicionScore: suspicion,
		Description:    fmt.Sprintf("%.0f%% of reviews posted in the last %d days", ratio*100, t.RecencyWindowDays),
	}, true
}

func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return sum / float64(len(reviews))
}
