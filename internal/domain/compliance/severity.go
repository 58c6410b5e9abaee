package compliance

import (
	"sort"
	"strings"

	"github.com/veridianlabs/esg-intel/internal/domain/catalog"
)

// Gap severities.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// severity applies the gap severity policy:
//   - mandatory requirement in a critical disclosure group -> critical
//   - mandatory otherwise -> high
//   - optional but sector-critical for the analyzed industry -> high
//   - optional otherwise -> medium
//   - any of the above drops to low when the text shows partial
//     semantic overlap (a fragment of a requirement keyword phrase
//     appears even though no full keyword matched).
func severity(req *catalog.Requirement, industry, normalized string) string {
	if partialOverlap(normalized, req.Keywords) {
		return SeverityLow
	}
	switch {
	case req.Mandatory && catalog.CriticalGroup(req):
		return SeverityCritical
	case req.Mandatory:
		return SeverityHigh
	case catalog.IndustryCritical(req, industry):
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// partialOverlap reports whether any individual word of a multi-word
// keyword phrase occurs in the text. Short function words are ignored.
func partialOverlap(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		words := strings.Fields(kw)
		if len(words) < 2 {
			continue
		}
		for _, w := range words {
			if len(w) < 5 {
				continue
			}
			if strings.Contains(normalized, w) {
				return true
			}
		}
	}
	return false
}

func sortSlice[T any](s []T, less func(a, b T) bool) {
	sort.SliceStable(s, func(i, j int) bool { return less(s[i], s[j]) })
}
