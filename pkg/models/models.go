// Package models defines the data shapes that flow between the normalizer,
// the analyzers, the scoring engine, and the orchestrator.
package models

import "time"

// SchemaVersion tags the wire shape of TrustReport and its nested aggregates so
// that services on either side of a JSON boundary can detect drift.
const SchemaVersion = "v1"

// Review is a single normalized review, as produced by a ReviewSource.
// Reviews are immutable once created; analyzers must not mutate them.
type Review struct {
	ReviewID         string    `json:"review_id"`
	Rating           float64   `json:"rating"`
	Text             string    `json:"text"`
	Title            string    `json:"title,omitempty"`
	Date             string    `json:"date,omitempty"`
	ReviewerName     string    `json:"reviewer_name,omitempty"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	HelpfulCount     int       `json:"helpful_count"`
	ParsedDate       time.Time `json:"-"`
}

// ProductMetadata describes the product a ReviewBatch was scraped for.
type ProductMetadata struct {
	ProductName          string   `json:"product_name"`
	Platform             string   `json:"platform"`
	AggregateRatingCount *int     `json:"aggregate_rating_count,omitempty"`
	AggregateRatingAvg   *float64 `json:"aggregate_rating_average,omitempty"`
}

// ReviewBatch is the immutable input handed to both analyzers for one request.
type ReviewBatch struct {
	Reviews  []Review        `json:"reviews"`
	Metadata ProductMetadata `json:"product_metadata"`
}

// ReviewAnalysis carries the per-review NLP signals for a single review_id.
type ReviewAnalysis struct {
	ReviewID         string   `json:"review_id"`
	SentimentScore   float64  `json:"sentiment_score"`
	SentimentLabel   string   `json:"sentiment_label"`
	SentimentConf    float64  `json:"sentiment_confidence"`
	FakeProbability  float64  `json:"fake_probability"`
	Flags            []string `json:"flags"`
	QualityScore     float64  `json:"quality_score"`
	PromotionalScore float64  `json:"promotional_score"`
	ReadabilityScore float64  `json:"readability_score"`
	Subjectivity     float64  `json:"subjectivity"`
	LexicalDiversity float64  `json:"lexical_diversity"`
}

// SimilarityCluster groups review_ids whose text is near-duplicate.
type SimilarityCluster struct {
	ClusterID       int      `json:"cluster_id"`
	ReviewIDs       []string `json:"review_ids"`
	SimilarityScore float64  `json:"similarity_score"`
	SampleText      string   `json:"sample_text"`
}

// NLPAggregate holds batch-level statistics derived from ReviewAnalysis entries.
type NLPAggregate struct {
	AverageFakeProbability  float64        `json:"average_fake_probability"`
	StdDevFakeProbability   float64        `json:"stddev_fake_probability"`
	AverageQuality          float64        `json:"average_text_quality"`
	AveragePromotional      float64        `json:"average_promotional_score"`
	AverageSentiment        float64        `json:"average_sentiment"`
	SentimentDistribution   map[string]int `json:"sentiment_distribution"`
	HighRiskReviewsCount    int            `json:"high_risk_reviews_count"`
	HighRiskPercentage      float64        `json:"high_risk_percentage"`
	SimilarityClustersCount int            `json:"similarity_clusters_count"`
	DuplicateReviewsPercent float64        `json:"duplicate_reviews_percentage"`
	CommonFlags             map[string]int `json:"common_flags"`
	NLPFakeScore            float64        `json:"nlp_fake_score"`
}

// NLPReport is the full output of the NLPAnalyzer for one batch.
type NLPReport struct {
	TotalReviews       int                 `json:"total_reviews"`
	Analyses           []ReviewAnalysis    `json:"analyses"`
	SimilarityClusters []SimilarityCluster `json:"similarity_clusters"`
	Aggregate          NLPAggregate        `json:"aggregate_metrics"`
}

// TemporalPattern describes a detected time-based anomaly (burst, spike, recency bias).
type TemporalPattern struct {
	PatternType    string  `json:"pattern_type"`
	TimeWindow     string  `json:"time_window"`
	ReviewCount    int     `json:"review_count"`
	AverageRating  float64 `json:"average_rating"`
	SuspicionScore float64 `json:"suspicion_score"`
	Description    string  `json:"description"`
}

// Temporal pattern type names.
const (
	PatternBurst       = "burst"
	PatternRatingSpike = "rating_spike"
	PatternRecencyBias = "recency_bias"
)

// ReviewerPattern describes suspicious behavior attributed to one reviewer
// (or, for ReviewerName == AggregateUnverifiedReviewer, to the unverified cohort).
type ReviewerPattern struct {
	ReviewerName   string   `json:"reviewer_name"`
	ReviewCount    int      `json:"review_count"`
	AverageRating  float64  `json:"average_rating"`
	RatingVariance float64  `json:"rating_variance"`
	SuspicionScore float64  `json:"suspicion_score"`
	Flags          []string `json:"flags"`
}

// AggregateUnverifiedReviewer is the pseudo-reviewer name used for the
// unverified-purchase cohort pattern (see BehaviorAnalyzer).
const AggregateUnverifiedReviewer = "AGGREGATE_UNVERIFIED"

// RatingDistribution is the integer star histogram plus polarization.
type RatingDistribution struct {
	OneStar           int     `json:"one_star"`
	TwoStar           int     `json:"two_star"`
	ThreeStar         int     `json:"three_star"`
	FourStar          int     `json:"four_star"`
	FiveStar          int     `json:"five_star"`
	Total             int     `json:"total"`
	PolarizationScore float64 `json:"polarization_score"`
}

// BehaviorAggregate holds batch-level behavioral statistics.
type BehaviorAggregate struct {
	TemporalSuspicion     float64 `json:"temporal_suspicion"`
	ReviewerSuspicion     float64 `json:"reviewer_suspicion"`
	RatingSuspicion       float64 `json:"rating_suspicion"`
	BehaviorFakeScore     float64 `json:"behavior_fake_score"`
	HasBurstPattern       bool    `json:"has_burst_pattern"`
	HasRatingSpike        bool    `json:"has_rating_spike"`
	HasRecencyBias        bool    `json:"has_recency_bias"`
	DuplicateReviewers    int     `json:"duplicate_reviewers_count"`
	VerificationRate      float64 `json:"verification_rate"`
	PolarizationDetected  bool    `json:"polarization_detected"`
	FiveStarConcentration float64 `json:"five_star_concentration"`
	TotalReviews          int     `json:"total_reviews"`
}

// BehaviorReport is the full output of the BehaviorAnalyzer for one batch.
type BehaviorReport struct {
	TotalReviews       int                `json:"total_reviews"`
	TemporalPatterns   []TemporalPattern  `json:"temporal_patterns"`
	ReviewerPatterns   []ReviewerPattern  `json:"reviewer_patterns"`
	RatingDistribution RatingDistribution `json:"rating_distribution"`
	Aggregate          BehaviorAggregate  `json:"aggregate_metrics"`
}

// ScoreBreakdown shows how each signal contributed to the fake-review estimate.
// NLPContribution + BehaviorContribution + StatisticalContribution sums to
// (100 - TrustScore) within rounding.
type ScoreBreakdown struct {
	NLPContribution         float64 `json:"nlp_contribution"`
	BehaviorContribution    float64 `json:"behavior_contribution"`
	StatisticalContribution float64 `json:"statistical_contribution"`
	FinalScore              float64 `json:"final_score"`
}

// Insight categories.
const (
	InsightRedFlag  = "red_flag"
	InsightWarning  = "warning"
	InsightPositive = "positive"
)

// Insight severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Insight is one categorized, severity-tagged, human-readable finding.
type Insight struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Evidence    string `json:"evidence,omitempty"`
}

// Risk levels.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// TrustReport is the final, persisted, client-facing analysis result.
// TrustScore + FakeReviewsPercentage always equals 100.
type TrustReport struct {
	SchemaVersion         string         `json:"schema_version"`
	URL                   string         `json:"url,omitempty"`
	TrustScore            int            `json:"trust_score"`
	FakeReviewsPercentage float64        `json:"fake_reviews_percentage"`
	RiskLevel             string         `json:"risk_level"`
	ScoreBreakdown        ScoreBreakdown `json:"score_breakdown"`
	Insights              []Insight      `json:"insights"`
	TotalReviewsAnalyzed  int            `json:"total_reviews_analyzed"`
	Recommendation        string         `json:"recommendation"`
	Confidence            float64        `json:"confidence"`
	Timestamp             time.Time      `json:"timestamp"`
	Cached                bool           `json:"cached"`
}

// CacheEntry wraps a TrustReport with its cache bookkeeping fields.
type CacheEntry struct {
	Report       TrustReport `json:"report"`
	CachedAt     time.Time   `json:"cached_at"`
	ExpiresAt    time.Time   `json:"expires_at"`
	TTLDays      int         `json:"ttl_days"`
	AccessCount  int         `json:"access_count"`
	LastAccessed time.Time   `json:"last_accessed"`
}

// Expired reports whether the entry is no longer live as of now.
func (c CacheEntry) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// APIResponse is the standardized envelope for non-2xx and auxiliary responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
