package nlp

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/pkg/models"
)

var cleanPattern = regexp.MustCompile(`[^a-z0-9\s]`)

func cleanText(text string) string {
	return strings.TrimSpace(cleanPattern.ReplaceAllString(strings.ToLower(text), " "))
}

// ngrams returns every contiguous word n-gram of length min..max from
// tokens, joined by a single space.
func ngrams(tokens []string, min, max int) []string {
	var out []string
	for n := min; n <= max; n++ {
		if n > len(tokens) {
			continue
		}
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// findSimilarityClusters builds a TF-IDF matrix over the cleaned review
// texts (capped at maxFeatures terms, n-grams 1-3, min_df=1), computes
// pairwise cosine similarity, and greedily clusters reviews per spec
// section 4.2. Falls back to Jaccard similarity on tokens when the
// vectorization step yields no usable vocabulary (e.g. all texts empty).
func findSimilarityClusters(reviews []models.Review, t config.Thresholds) []models.SimilarityCluster {
	if len(reviews) < 2 {
		return nil
	}

	docs := make([][]string, len(reviews))
	for i, r := range reviews {
		tokens := tokenize(cleanText(r.Text))
		docs[i] = ngrams(tokens, t.TFIDFNGramMin, t.TFIDFNGramMax)
	}

	vocab := buildVocabulary(docs, t)
	if len(vocab) == 0 {
		return clusterByJaccard(reviews, t.JaccardFallbackThreshold)
	}

	vectors := tfidfVectors(docs, vocab)
	return clusterBySimilarity(reviews, t.SimilarityThreshold, func(i, j int) float64 {
		return cosineSimilarity(vectors[i], vectors[j])
	})
}

// buildVocabulary selects up to maxFeatures terms ranked by document
// frequency (descending) then lexicographically, honoring min_df.
func buildVocabulary(docs [][]string, t config.Thresholds) map[string]int {
	df := map[string]int{}
	for _, doc := range docs {
		seen := map[string]struct{}{}
		for _, term := range doc {
			seen[term] = struct{}{}
		}
		for term := range seen {
			df[term]++
		}
	}

	terms := make([]string, 0, len(df))
	for term, count := range df {
		if count >= t.TFIDFMinDF {
			terms = append(terms, term)
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > t.TFIDFMaxFeatures {
		terms = terms[:t.TFIDFMaxFeatures]
	}

	vocab := make(map[string]int, len(terms))
	for idx, term := range terms {
		vocab[term] = idx
	}
	return vocab
}

func tfidfVectors(docs [][]string, vocab map[string]int) [][]float64 {
	n := len(docs)
	df := make([]int, len(vocab))
	termCounts := make([]map[int]int, n)

	for i, doc := range docs {
		counts := map[int]int{}
		for _, term := range doc {
			idx, ok := vocab[term]
			if !ok {
				continue
			}
			counts[idx]++
		}
		termCounts[i] = counts
		for idx := range counts {
			df[idx]++
		}
	}

	idf := make([]float64, len(vocab))
	for idx, d := range df {
		idf[idx] = math.Log(float64(n+1)/float64(d+1)) + 1
	}

	vectors := make([][]float64, n)
	for i, counts := range termCounts {
		vec := make([]float64, len(vocab))
		var total int
		for _, c := range counts {
			total += c
		}
		if total == 0 {
			vectors[i] = vec
			continue
		}
		for idx, c := range counts {
			tf := float64(c) / float64(total)
			vec[idx] = tf * idf[idx]
		}
		vectors[i] = vec
	}
	return vectors
}

func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// clusterBySimilarity implements the greedy single-pass clustering from
// spec section 4.2 over an arbitrary pairwise similarity function.
func clusterBySimilarity(reviews []models.Review, threshold float64, sim func(i, j int) float64) []models.SimilarityCluster {
	processed := make([]bool, len(reviews))
	var clusters []models.SimilarityCluster

	for i := range reviews {
		if processed[i] {
			continue
		}
		var members []int
		for j := range reviews {
			if j == i || processed[j] {
				continue
			}
			if sim(i, j) >= threshold {
				members = append(members, j)
			}
		}
		if len(members) == 0 {
			continue
		}

		processed[i] = true
		ids := []string{reviews[i].ReviewID}
		var sum float64
		for _, j := range members {
			processed[j] = true
			ids = append(ids, reviews[j].ReviewID)
			sum += sim(i, j)
		}

		sample := reviews[i].Text
		if len(sample) > 100 {
			sample = sample[:100] + "..."
		}

		clusters = append(clusters, models.SimilarityCluster{
			ClusterID:       len(clusters),
			ReviewIDs:       ids,
			SimilarityScore: sum / float64(len(members)),
			SampleText:      sample,
		})
	}
	return clusters
}

func clusterByJaccard(reviews []models.Review, threshold float64) []models.SimilarityCluster {
	tokenSets := make([]map[string]struct{}, len(reviews))
	for i, r := range reviews {
		set := map[string]struct{}{}
		for _, w := range tokenize(r.Text) {
			set[w] = struct{}{}
		}
		tokenSets[i] = set
	}

	return clusterBySimilarity(reviews, threshold, func(i, j int) float64 {
		return jaccard(tokenSets[i], tokenSets[j])
	})
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var intersection int
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
