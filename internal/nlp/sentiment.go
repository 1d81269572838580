package nlp

import (
	"regexp"
	"strings"

	"github.com/reviewtrust/gateway/internal/config"
)

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// sentimentMethodA scores a lexicon weighted average: the mean weight of
// every matched positive/negative word, scaled up by any intensifier seen
// in the text. Returns 0 when no sentiment word is present.
func sentimentMethodA(words []string, lex config.Lexicons) float64 {
	var sum float64
	var matched int
	for _, w := range words {
		if weight, ok := lex.PositiveWords[w]; ok {
			sum += weight
			matched++
			continue
		}
		if weight, ok := lex.NegativeWords[w]; ok {
			sum += weight
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	score := sum / float64(matched)

	multiplier := 1.0
	for _, w := range words {
		if bump, ok := lex.IntensifierWords[w]; ok {
			multiplier *= bump
		}
	}
	score *= multiplier
	return clamp(score, -1, 1)
}

// sentimentMethodB scores a word-count ratio: (positive - negative) / total
// words, scaled by 10 to spread the signal across [-1,1]. Grounded on the
// rule-based ratio approach in the reference sentiment analyzer.
func sentimentMethodB(words []string, lex config.Lexicons) float64 {
	if len(words) == 0 {
		return 0
	}
	var pos, neg int
	for _, w := range words {
		if _, ok := lex.PositiveWords[w]; ok {
			pos++
		}
		if _, ok := lex.NegativeWords[w]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	score := float64(pos-neg) / float64(len(words)) * 10
	return clamp(score, -1, 1)
}

// sentimentResult is the ensemble output for one review's text.
type sentimentResult struct {
	Score      float64
	Label      string
	Confidence float64
	MethodA    float64
	MethodB    float64
}

func analyzeSentiment(text string, cfg *config.Config) sentimentResult {
	words := tokenize(text)
	a := sentimentMethodA(words, cfg.Lexicons)
	b := sentimentMethodB(words, cfg.Lexicons)

	score := cfg.Weights.SentimentMethodA*a + cfg.Weights.SentimentMethodB*b

	label := "neutral"
	if score > cfg.Thresholds.SentimentPositive {
		label = "positive"
	} else if score < cfg.Thresholds.SentimentNegative {
		label = "negative"
	}

	confidence := 1 - abs(a-b)/2
	confidence = clamp(confidence, cfg.Thresholds.ConfidenceMin, cfg.Thresholds.ConfidenceMax)

	return sentimentResult{Score: score, Label: label, Confidence: confidence, MethodA: a, MethodB: b}
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
