// Package normalizer canonicalizes product page URLs and derives the
// stable fingerprint used as the ReportStore cache key.
package normalizer

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"github.com/reviewtrust/gateway/internal/config"
)

// Normalizer canonicalizes URLs against a fixed set of tracking parameters.
type Normalizer struct {
	trackingParams map[string]struct{}
}

// New builds a Normalizer from the tracking-parameter lexicon in cfg.
func New(cfg *config.Config) *Normalizer {
	return &Normalizer{trackingParams: cfg.Lexicons.TrackingParams}
}

// Normalize canonicalizes url per spec: lowercased scheme/host, www.
// stripped, trailing slash stripped from path, tracking params removed,
// remaining params sorted, fragment and userinfo dropped. Only http/https
// schemes are accepted; any other scheme, or a parse failure, returns the
// input unchanged — normalization never fails the pipeline.
func (n *Normalizer) Normalize(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return raw
	}

	host := strings.ToLower(parsed.Host)
	host = strings.TrimPrefix(host, "www.")

	path := strings.TrimSuffix(parsed.Path, "/")

	query := parsed.Query()
	kept := url.Values{}
	for key, values := range query {
		if _, tracked := n.trackingParams[strings.ToLower(key)]; tracked {
			continue
		}
		kept[key] = values
	}

	keys := make([]string, 0, len(kept))
	for k := range kept {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var qs strings.Builder
	for i, k := range keys {
		vals := kept[k]
		sort.Strings(vals)
		for j, v := range vals {
			if i > 0 || j > 0 {
				qs.WriteByte('&')
			}
			qs.WriteString(url.QueryEscape(k))
			qs.WriteByte('=')
			qs.WriteString(url.QueryEscape(v))
		}
	}

	out := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     path,
		RawQuery: qs.String(),
	}
	return out.String()
}

// Fingerprint returns the 64-character lowercase hex SHA-256 digest of the
// normalized URL's UTF-8 bytes.
func (n *Normalizer) Fingerprint(raw string) string {
	canonical := n.Normalize(raw)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
