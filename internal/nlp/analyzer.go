// Package nlp implements per-review linguistic scoring and batch-level
// duplicate clustering: the NLPAnalyzer of the analysis pipeline.
package nlp

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/pkg/models"
)

// Analyzer is deterministic given the same batch and configuration; it
// holds no mutable state and is safe for concurrent use across batches.
type Analyzer struct {
	cfg *config.Config
}

// New builds an Analyzer bound to cfg's lexicons, weights, and thresholds.
func New(cfg *config.Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze runs the per-review sub-signals over batch.Reviews, then derives
// similarity clusters and aggregate metrics. It observes ctx cancellation
// between reviews so a disconnected caller stops the analyzer promptly.
func (a *Analyzer) Analyze(ctx context.Context, batch models.ReviewBatch) (models.NLPReport, error) {
	analyses := make([]models.ReviewAnalysis, 0, len(batch.Reviews))

	for _, review := range batch.Reviews {
		if err := ctx.Err(); err != nil {
			return models.NLPReport{}, err
		}
		analyses = append(analyses, a.analyzeReview(review))
	}

	clusters := findSimilarityClusters(batch.Reviews, a.cfg.Thresholds)

	report := models.NLPReport{
		TotalReviews:       len(batch.Reviews),
		Analyses:           analyses,
		SimilarityClusters: clusters,
		Aggregate:          aggregate(analyses, clusters, len(batch.Reviews)),
	}
	return report, nil
}

func (a *Analyzer) analyzeReview(r models.Review) models.ReviewAnalysis {
	words := tokenize(r.Text)
	sentiment := analyzeSentiment(r.Text, a.cfg)
	quality := analyzeQuality(r.Text, words, a.cfg.Thresholds)
	fake := fakeProbability(r.Text, r.Rating, sentiment, quality.Quality, quality.LexicalDiversity, words, a.cfg)

	return models.ReviewAnalysis{
		ReviewID:         r.ReviewID,
		SentimentScore:   sentiment.Score,
		SentimentLabel:   sentiment.Label,
		SentimentConf:    sentiment.Confidence,
		FakeProbability:  fake.Probability,
		Flags:            fake.Flags,
		QualityScore:     quality.Quality,
		PromotionalScore: promotionalFraction(r.Text, a.cfg.Lexicons.PromotionalPhrases),
		ReadabilityScore: quality.Readability,
		Subjectivity:     quality.Subjectivity,
		LexicalDiversity: quality.LexicalDiversity,
	}
}

func promotionalFraction(text string, phrases []string) float64 {
	return phraseFraction(strings.ToLower(text), phrases)
}

func aggregate(analyses []models.ReviewAnalysis, clusters []models.SimilarityCluster, total int) models.NLPAggregate {
	agg := models.NLPAggregate{
		SentimentDistribution: map[string]int{"positive": 0, "negative": 0, "neutral": 0},
		CommonFlags:           map[string]int{},
	}
	if total == 0 {
		return agg
	}

	var fakeSum, qualitySum, promoSum, sentimentSum float64
	var highRisk int
	flagCounts := map[string]int{}

	for _, an := range analyses {
		fakeSum += an.FakeProbability
		qualitySum += an.QualityScore
		promoSum += an.PromotionalScore
		sentimentSum += an.SentimentScore
		agg.SentimentDistribution[an.SentimentLabel]++
		if an.FakeProbability > 0.6 {
			highRisk++
		}
		for _, f := range an.Flags {
			flagCounts[f]++
		}
	}

	n := float64(len(analyses))
	agg.AverageFakeProbability = fakeSum / n
	agg.AverageQuality = qualitySum / n
	agg.AveragePromotional = promoSum / n
	agg.AverageSentiment = sentimentSum / n
	agg.HighRiskReviewsCount = highRisk
	agg.HighRiskPercentage = float64(highRisk) / n * 100
	agg.NLPFakeScore = agg.AverageFakeProbability * 100

	var variance float64
	for _, an := range analyses {
		d := an.FakeProbability - agg.AverageFakeProbability
		variance += d * d
	}
	agg.StdDevFakeProbability = math.Sqrt(variance / n)

	agg.SimilarityClustersCount = len(clusters)
	var duplicateReviews int
	for _, c := range clusters {
		duplicateReviews += len(c.ReviewIDs)
	}
	agg.DuplicateReviewsPercent = float64(duplicateReviews) / n * 100

	agg.CommonFlags = topFlags(flagCounts, 10)

	return agg
}

func topFlags(counts map[string]int, limit int) map[string]int {
	type kv struct {
		key   string
		count int
	}
	kvs := make([]kv, 0, len(counts))
	for k, v := range counts {
		kvs = append(kvs, kv{k, v})
	}
	sort.Slice(kvs, func(i, j int) bool {
		if kvs[i].count != kvs[j].count {
			return kvs[i].count > kvs[j].count
		}
		return kvs[i].key < kvs[j].key
	})
	if len(kvs) > limit {
		kvs = kvs[:limit]
	}
	out := make(map[string]int, len(kvs))
	for _, e := range kvs {
		out[e.key] = e.count
	}
	return out
}

