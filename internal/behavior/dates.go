package behavior

import (
	"regexp"
	"strings"
	"time"
)

var datePrefixPattern = regexp.MustCompile(`(?i)^(reviewed on|posted on|date:)\s*`)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC3339,
}

// parseDate accepts ISO, slash, and long-form month-name date variants,
// tolerating a leading "Reviewed on"/"Posted on"/"Date:" prefix.
// Unparseable input returns ok=false so callers can drop the review from
// temporal analysis only, per spec.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	raw = datePrefixPattern.ReplaceAllString(raw, "")
	raw = strings.TrimSpace(raw)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
