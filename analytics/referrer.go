package analytics

import (
	"regexp"
	"strings"
)

var referrerDomainRegex = regexp.MustCompile(`^https?://(?:www\.)?([^/]+)`)

// knownReferrers folds common sources into friendly names regardless of
// the regional domain variant (google.de, google.co.uk and so on).
var knownReferrers = []struct {
	marker string
	name   string
}{
	{"google.", "Google"},
	{"bing.", "Bing"},
	{"duckduckgo.", "DuckDuckGo"},
	{"yahoo.", "Yahoo"},
	{"github.", "GitHub"},
}

// CleanReferrer reduces a referrer URL to a short source label. Empty
// referrers count as direct traffic.
func CleanReferrer(ref string) string {
	if ref == "" {
		return "Direct"
	}

	refLower := strings.ToLower(ref)
	for _, k := range knownReferrers {
		if strings.Contains(refLower, k.marker) {
			return k.name
		}
	}

	matches := referrerDomainRegex.FindStringSubmatch(ref)
	if len(matches) > 1 {
		return matches[1]
	}

	return "Other"
}
