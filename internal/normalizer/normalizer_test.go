package normalizer

import (
	"testing"

	"github.com/reviewtrust/gateway/internal/config"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	return &Normalizer{trackingParams: map[string]struct{}{
		"utm_source": {}, "ref": {}, "gclid": {},
	}}
}

func TestNormalize_TrackingParamEquivalence(t *testing.T) {
	n := newTestNormalizer(t)

	a := n.Normalize("https://www.Amazon.in/dp/X?utm_source=a&ref=b")
	b := n.Normalize("https://amazon.in/dp/X")

	require.Equal(t, b, a)
}

func TestFingerprint_StableUnderCosmeticVariation(t *testing.T) {
	n := newTestNormalizer(t)

	variants := []string{
		"https://www.Amazon.in/dp/X?utm_source=a&ref=b",
		"HTTPS://Amazon.IN/dp/X/",
		"https://amazon.in/dp/X#reviews",
		"https://amazon.in/dp/X?ref=b&utm_source=a",
	}

	first := n.Fingerprint(variants[0])
	for _, v := range variants[1:] {
		require.Equal(t, first, n.Fingerprint(v), "expected identical fingerprint for %q", v)
	}
	require.Len(t, first, 64)
}

func TestNormalize_KeepsEssentialParamsSorted(t *testing.T) {
	n := newTestNormalizer(t)

	out := n.Normalize("https://example.com/p?b=2&a=1&utm_source=x")
	require.Equal(t, "https://example.com/p?a=1&b=2", out)
}

func TestNormalize_RejectsNonHTTPScheme(t *testing.T) {
	n := newTestNormalizer(t)

	raw := "ftp://example.com/file"
	require.Equal(t, raw, n.Normalize(raw))
}

func TestNormalize_ParseFailureReturnsInputUnchanged(t *testing.T) {
	n := newTestNormalizer(t)

	raw := "://not a url"
	require.Equal(t, raw, n.Normalize(raw))
}

func TestConstructor(t *testing.T) {
	cfg := &config.Config{}
	cfg.Lexicons.TrackingParams = map[string]struct{}{"ref": {}}
	n := New(cfg)
	require.NotNil(t, n)
}
