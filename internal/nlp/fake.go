package nlp

import (
	"regexp"
	"strings"

	"github.com/reviewtrust/gateway/internal/config"
)

type fakeResult struct {
	Probability float64
	Flags       []string
}

// fakeProbability implements the six-feature weighted sum in spec section
// 4.2. Every sub-score is computed independently and flagged when it fires;
// the final weighted sum is clamped to [0,1].
func fakeProbability(text string, rating float64, sentiment sentimentResult, quality, lexicalDiversity float64, words []string, cfg *config.Config) fakeResult {
	w := cfg.Weights
	t := cfg.Thresholds
	lex := cfg.Lexicons

	var flags []string
	lowerText := strings.ToLower(text)

	promoScore := phraseFraction(lowerText, lex.PromotionalPhrases)
	if promoScore > 0 {
		flags = append(flags, "promotional_language")
	}

	genericScore := phraseFraction(lowerText, lex.GenericPhrases)
	if genericScore > 0 {
		flags = append(flags, "generic_template")
	}

	mismatchScore := sentimentRatingMismatch(rating, sentiment.Score, t)
	if mismatchScore > 0 {
		flags = append(flags, "sentiment_rating_mismatch")
	}

	textFeatureScore, textFlags := textFeaturePenalty(text, words, lexicalDiversity, t)
	flags = append(flags, textFlags...)

	spamScore := 0.0
	if spamMatch(lowerText, lex.SpamPatterns) {
		spamScore = t.SpamPenalty
		flags = append(flags, "spam_pattern")
	}

	weighted := w.FakePromotional*promoScore +
		w.FakeGeneric*genericScore +
		w.FakeQuality*quality +
		w.FakeSentimentMismatch*mismatchScore +
		w.FakeTextFeatures*textFeatureScore +
		w.FakeSpamIndicators*spamScore

	return fakeResult{Probability: clamp(weighted, 0, 1), Flags: flags}
}

func phraseFraction(lowerText string, phrases []string) float64 {
	if len(phrases) == 0 {
		return 0
	}
	matched := 0
	for _, p := range phrases {
		if strings.Contains(lowerText, p) {
			matched++
		}
	}
	return float64(matched) / float64(len(phrases))
}

// sentimentRatingMismatch flags reviews whose star rating contradicts the
// measured sentiment: a 5-star review reading as strongly negative, or a
// 1-star review reading as strongly positive.
func sentimentRatingMismatch(rating, sentimentScore float64, t config.Thresholds) float64 {
	expected := 0.0
	if rating >= t.MismatchRatingHigh {
		expected = 0.5
	} else if rating <= t.MismatchRatingLow {
		expected = -0.5
	}
	delta := abs(expected - sentimentScore)
	if delta > t.MismatchStrong {
		return t.MismatchStrongPen
	}
	if delta > t.MismatchModerate {
		return t.MismatchModeratePen
	}
	return 0
}

func textFeaturePenalty(text string, words []string, lexicalDiversity float64, t config.Thresholds) (float64, []string) {
	var flags []string
	var score float64

	if len(words) < t.ShortTextWords {
		score += 0.25
		flags = append(flags, "very_short_review")
	}

	capsRatio := capsRatio(text)
	if capsRatio > t.CapsRatioMax {
		score += 0.25
		flags = append(flags, "excessive_caps")
	}

	if strings.Count(text, "!") > t.ExclamationMax {
		score += 0.25
		flags = append(flags, "excessive_exclamations")
	}

	if len(words) > t.LexicalDiversityMinWords && lexicalDiversity < t.LexicalDiversityMin {
		score += 0.25
		flags = append(flags, "low_lexical_diversity")
	}

	return clamp(score, 0, 1), flags
}

func capsRatio(text string) float64 {
	var letters, caps int
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			letters++
		} else if r >= 'A' && r <= 'Z' {
			letters++
			caps++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(caps) / float64(letters)
}

var spamNumberPattern = regexp.MustCompile(`\+?\d[\d\-\s]{8,}\d`)

func spamMatch(lowerText string, patterns []string) bool {
	if spamNumberPattern.MatchString(lowerText) {
		return true
	}
	for _, p := range patterns {
		if p == spamNumberPattern.String() {
			continue
		}
		if matched, _ := regexp.MatchString(p, lowerText); matched {
			return true
		}
	}
	return false
}
