package config

// Weights holds every linear combination coefficient used by the analyzers
// and the scoring engine. Pinned from spec section 4; analyzers receive
// this by reference and never mutate it.
type Weights struct {
	SentimentMethodA float64
	SentimentMethodB float64

	FakePromotional         float64
	FakeGeneric             float64
	FakeQuality             float64
	FakeSentimentMismatch   float64
	FakeTextFeatures        float64
	FakeSpamIndicators      float64

	QualityReadability      float64
	QualityLexicalDiversity float64
	QualityLength           float64

	BehaviorTemporal float64
	BehaviorReviewer float64
	BehaviorRating   float64

	FusionNLP         float64
	FusionBehavior    float64
	FusionStatistical float64
}

func defaultWeights() Weights {
	return Weights{
		SentimentMethodA: 0.6,
		SentimentMethodB: 0.4,

		FakePromotional:       0.25,
		FakeGeneric:           0.20,
		FakeQuality:           -0.15,
		FakeSentimentMismatch: 0.30,
		FakeTextFeatures:      0.15,
		FakeSpamIndicators:    0.15,

		QualityReadability:      0.4,
		QualityLexicalDiversity: 0.3,
		QualityLength:           0.3,

		BehaviorTemporal: 0.4,
		BehaviorReviewer: 0.3,
		BehaviorRating:   0.3,

		FusionNLP:         0.5,
		FusionBehavior:    0.3,
		FusionStatistical: 0.2,
	}
}

// Thresholds holds every cutoff, band edge, and bonus value referenced by
// section 4's formulas.
type Thresholds struct {
	SentimentPositive float64
	SentimentNegative float64
	ConfidenceMin     float64
	ConfidenceMax     float64

	MismatchRatingHigh float64
	MismatchRatingLow  float64
	MismatchStrong     float64
	MismatchStrongPen  float64
	MismatchModerate   float64
	MismatchModeratePen float64

	ShortTextWords      int
	CapsRatioMax        float64
	ExclamationMax      int
	LexicalDiversityMin float64
	LexicalDiversityMinWords int

	SpamPenalty float64

	ReadabilityWordLenTarget     float64
	ReadabilitySentenceLenTarget float64
	LengthIdealMin               int
	LengthIdealMax                int
	LengthScoreIdeal              float64
	LengthScoreNear                float64
	LengthScoreBroad               float64
	LengthScoreOther               float64

	HighRiskFakeProbability float64

	TFIDFMaxFeatures int
	TFIDFNGramMin    int
	TFIDFNGramMax    int
	TFIDFMinDF       int
	SimilarityThreshold        float64
	JaccardFallbackThreshold   float64

	BurstWindows       []int
	BurstMinAbsolute   int
	BurstMinFraction   float64

	RatingSpikeMinReviews  int
	RatingSpikeMinDays     int
	RatingSpikeMinPerWeek  int
	RatingSpikeMinDelta    float64

	RecencyWindowDays   int
	RecencyMinRatio     float64
	RecencyMinTotal     int

	ReviewerMinCount         int
	ReviewerMultiplierCap    float64
	ReviewerMultiplierUnit   float64
	ReviewerIdenticalRatingsPenalty float64
	ReviewerAllFiveStarsPenalty     float64
	UnverifiedRatioThreshold float64

	PolarizationThreshold float64

	StatFiveStarHigh    float64
	StatFiveStarHighBonus float64
	StatFiveStarMid     float64
	StatFiveStarMidBonus  float64
	StatFiveStarLow     float64
	StatFiveStarLowBonus  float64

	StatPolarizationHigh      float64
	StatPolarizationHighBonus float64
	StatPolarizationLow       float64
	StatPolarizationLowBonus  float64

	StatMiddleShareMax   float64
	StatMiddleShareBonus float64

	StatSmallSampleMaxTotal   int
	StatSmallSampleFiveStar   float64
	StatSmallSampleBonus      float64

	ConfidenceBaseline float64
	ConfidenceTotal100 float64
	ConfidenceTotal50  float64
	ConfidenceTotal20  float64
	ConfidenceAgreementClose   float64
	ConfidenceAgreementCloseDelta float64
	ConfidenceAgreementFar        float64
	ConfidenceAgreementFarDelta   float64
	ConfidenceVerification     float64
	ConfidenceVerificationRate float64

	RiskLowTrust      int
	RiskMediumTrust    int
	RiskHighTrust      int

	MaxInsights int

	RateLimitRequests int

	DefaultTTLDays int
}

func defaultThresholds() Thresholds {
	return Thresholds{
		SentimentPositive: 0.15,
		SentimentNegative: -0.15,
		ConfidenceMin:     0.5,
		ConfidenceMax:     0.95,

		MismatchRatingHigh:  4.0,
		MismatchRatingLow:   2.0,
		MismatchStrong:      0.7,
		MismatchStrongPen:   0.8,
		MismatchModerate:    0.5,
		MismatchModeratePen: 0.4,

		ShortTextWords:           10,
		CapsRatioMax:             0.3,
		ExclamationMax:           5,
		LexicalDiversityMin:      0.4,
		LexicalDiversityMinWords: 20,

		SpamPenalty: 0.9,

		ReadabilityWordLenTarget:     5.5,
		ReadabilitySentenceLenTarget: 15,
		LengthIdealMin:               50,
		LengthIdealMax:               200,
		LengthScoreIdeal:             1.0,
		LengthScoreNear:              0.7,
		LengthScoreBroad:             0.5,
		LengthScoreOther:             0.3,

		HighRiskFakeProbability: 0.6,

		TFIDFMaxFeatures:         500,
		TFIDFNGramMin:            1,
		TFIDFNGramMax:            3,
		TFIDFMinDF:               1,
		SimilarityThreshold:      0.75,
		JaccardFallbackThreshold: 0.70,

		BurstWindows:     []int{1, 3, 7, 30},
		BurstMinAbsolute: 10,
		BurstMinFraction: 0.3,

		RatingSpikeMinReviews: 20,
		RatingSpikeMinDays:    7,
		RatingSpikeMinPerWeek: 5,
		RatingSpikeMinDelta:   1.0,

		RecencyWindowDays: 30,
		RecencyMinRatio:   0.5,
		RecencyMinTotal:   20,

		ReviewerMinCount:                2,
		ReviewerMultiplierCap:           0.5,
		ReviewerMultiplierUnit:          0.2,
		ReviewerIdenticalRatingsPenalty: 0.4,
		ReviewerAllFiveStarsPenalty:     0.3,
		UnverifiedRatioThreshold:        0.7,

		PolarizationThreshold: 0.7,

		StatFiveStarHigh:      0.8,
		StatFiveStarHighBonus: 40,
		StatFiveStarMid:       0.7,
		StatFiveStarMidBonus:  25,
		StatFiveStarLow:       0.6,
		StatFiveStarLowBonus:  10,

		StatPolarizationHigh:      0.7,
		StatPolarizationHighBonus: 30,
		StatPolarizationLow:       0.5,
		StatPolarizationLowBonus:  15,

		StatMiddleShareMax:   0.15,
		StatMiddleShareBonus: 20,

		StatSmallSampleMaxTotal: 20,
		StatSmallSampleFiveStar: 0.9,
		StatSmallSampleBonus:    20,

		ConfidenceBaseline:            0.5,
		ConfidenceTotal100:            0.2,
		ConfidenceTotal50:             0.15,
		ConfidenceTotal20:             0.1,
		ConfidenceAgreementClose:      0.2,
		ConfidenceAgreementCloseDelta: 10,
		ConfidenceAgreementFar:        0.1,
		ConfidenceAgreementFarDelta:   20,
		ConfidenceVerification:        0.1,
		ConfidenceVerificationRate:    0.7,

		RiskLowTrust:   80,
		RiskMediumTrust: 60,
		RiskHighTrust:   40,

		MaxInsights: 10,

		RateLimitRequests: 10,

		DefaultTTLDays: 7,
	}
}

// Lexicons holds every fixed phrase/word list the NLP analyzer matches
// against. Non-goals: these are authored once, never trained or learned.
type Lexicons struct {
	PositiveWords     map[string]float64
	NegativeWords     map[string]float64
	IntensifierWords  map[string]float64

	PromotionalPhrases []string
	GenericPhrases     []string
	SpamPatterns       []string

	TrackingParams map[string]struct{}
}

func defaultLexicons() Lexicons {
	return Lexicons{
		PositiveWords: map[string]float64{
			"great": 0.6, "excellent": 0.8, "amazing": 0.8, "love": 0.7,
			"perfect": 0.9, "good": 0.4, "best": 0.7, "awesome": 0.8,
			"fantastic": 0.8, "wonderful": 0.7, "happy": 0.5, "recommend": 0.6,
			"quality": 0.4, "satisfied": 0.5, "works": 0.3, "nice": 0.4,
		},
		NegativeWords: map[string]float64{
			"bad": -0.5, "terrible": -0.8, "awful": -0.8, "worst": -0.9,
			"hate": -0.7, "broken": -0.6, "poor": -0.5, "disappointed": -0.6,
			"waste": -0.7, "horrible": -0.8, "defective": -0.6, "useless": -0.7,
			"never": -0.3, "refund": -0.4, "scam": -0.9, "fake": -0.6,
		},
		IntensifierWords: map[string]float64{
			"very": 1.3, "extremely": 1.5, "really": 1.2, "absolutely": 1.4,
			"totally": 1.3, "completely": 1.3,
		},
		PromotionalPhrases: []string{
			"best purchase ever", "highly recommend", "must buy", "will buy again",
			"five stars", "exceeded my expectations", "worth every penny",
			"buy it now", "act fast", "limited time",
		},
		GenericPhrases: []string{
			"good product", "nice product", "works well", "as described",
			"fast shipping", "good quality", "five star", "great value",
			"exactly as pictured", "would recommend",
		},
		SpamPatterns: []string{
			`\+?\d[\d\-\s]{8,}\d`,
			`whatsapp`,
			`contact\s+\w*\s*\d+`,
			`click\s+\w*\s*link`,
			`visit\s+\w*\s*website`,
		},
		TrackingParams: map[string]struct{}{
			"utm_source": {}, "utm_medium": {}, "utm_campaign": {}, "utm_term": {},
			"utm_content": {}, "ref": {}, "referrer": {}, "source": {},
			"campaign": {}, "gclid": {}, "fbclid": {}, "_encoding": {},
			"psc": {}, "qid": {}, "sr": {}, "keywords": {}, "ie": {},
		},
	}
}
