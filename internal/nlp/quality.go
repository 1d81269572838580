package nlp

import (
	"regexp"
	"strings"

	"github.com/reviewtrust/gateway/internal/config"
)

var sentenceSplitPattern = regexp.MustCompile(`[.!?]+`)

type qualityResult struct {
	Quality          float64
	Readability      float64
	LexicalDiversity float64
	LengthScore      float64
	Subjectivity     float64
}

// analyzeQuality implements spec section 4.2: quality = 0.4*readability +
// 0.3*lexical_diversity + 0.3*length_score.
func analyzeQuality(text string, words []string, t config.Thresholds) qualityResult {
	readability := readabilityScore(text, words, t)
	diversity := lexicalDiversity(words)
	length := lengthScore(words, t)
	subjectivity := subjectivityScore(words)

	q := 0.4*readability + 0.3*diversity + 0.3*length

	return qualityResult{
		Quality:          clamp(q, 0, 1),
		Readability:      readability,
		LexicalDiversity: diversity,
		LengthScore:      length,
		Subjectivity:     subjectivity,
	}
}

// readabilityScore rewards average word length near 5.5 characters and
// average sentence length near 15 words; both distances are converted to a
// [0,1] closeness score and averaged.
func readabilityScore(text string, words []string, t config.Thresholds) float64 {
	if len(words) == 0 {
		return 0
	}

	var totalLen int
	for _, w := range words {
		totalLen += len(w)
	}
	avgWordLen := float64(totalLen) / float64(len(words))
	wordCloseness := closeness(avgWordLen, t.ReadabilityWordLenTarget, t.ReadabilityWordLenTarget)

	sentences := sentenceSplitPattern.Split(strings.TrimSpace(text), -1)
	nonEmpty := 0
	for _, s := range sentences {
		if strings.TrimSpace(s) != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		nonEmpty = 1
	}
	avgSentenceLen := float64(len(words)) / float64(nonEmpty)
	sentenceCloseness := closeness(avgSentenceLen, t.ReadabilitySentenceLenTarget, t.ReadabilitySentenceLenTarget)

	return clamp((wordCloseness+sentenceCloseness)/2, 0, 1)
}

// closeness converts |value-target| into a [0,1] score using span as the
// distance at which the score reaches zero.
func closeness(value, target, span float64) float64 {
	if span <= 0 {
		span = 1
	}
	d := abs(value-target) / span
	return clamp(1-d, 0, 1)
}

func lexicalDiversity(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return float64(len(seen)) / float64(len(words))
}

// lengthScore implements the four-band length score from spec section 4.2:
// 1.0 in [50,200] words, 0.7 near that band, 0.5 broader, 0.3 otherwise.
func lengthScore(words []string, t config.Thresholds) float64 {
	n := len(words)
	switch {
	case n >= t.LengthIdealMin && n <= t.LengthIdealMax:
		return t.LengthScoreIdeal
	case n >= t.LengthIdealMin/2 && n < t.LengthIdealMin,
		n > t.LengthIdealMax && n <= t.LengthIdealMax*2:
		return t.LengthScoreNear
	case n >= t.LengthIdealMin/4 && n < t.LengthIdealMin/2,
		n > t.LengthIdealMax*2 && n <= t.LengthIdealMax*4:
		return t.LengthScoreBroad
	default:
		return t.LengthScoreOther
	}
}

var subjectiveWords = map[string]struct{}{
	"think": {}, "feel": {}, "believe": {}, "opinion": {}, "seems": {},
	"maybe": {}, "probably": {}, "guess": {}, "love": {}, "hate": {},
	"amazing": {}, "terrible": {}, "best": {}, "worst": {},
}

func subjectivityScore(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	var matched int
	for _, w := range words {
		if _, ok := subjectiveWords[w]; ok {
			matched++
		}
	}
	return clamp(float64(matched)/float64(len(words))*5, 0, 1)
}
