package compliance

import (
	"fmt"
	"sort"
)

const maxRecommendations = 10

// recommend derives short directives from coverage levels and gap
// severities.
func recommend(gaps []Gap, coverage []Coverage) []string {
	var recs []string

	for _, cov := range coverage {
		if cov.CoveragePercentage < 50 {
			recs = append(recs, fmt.Sprintf(
				"Improve %s disclosure: currently at %.1f%% coverage with %d mandatory requirements unmet.",
				cov.Framework, cov.CoveragePercentage, cov.MandatoryTotal-cov.MandatoryMet))
		}
	}

	if cats := categoriesWithSeverity(gaps, SeverityCritical); len(cats) > 0 {
		for _, cat := range cats {
			recs = append(recs, fmt.Sprintf(
				"Critical gap in %s: immediate action required to meet regulatory requirements.", cat))
		}
	}

	if cats := categoriesWithSeverity(gaps, SeverityHigh); len(cats) > 0 {
		if len(cats) > 3 {
			cats = cats[:3]
		}
		recs = append(recs, fmt.Sprintf("Priority areas for improvement: %s.", join(cats)))
	}

	for _, cov := range coverage {
		if cov.CoveragePercentage > 80 {
			recs = append(recs, fmt.Sprintf(
				"Strong %s compliance (%.1f%%); consider external verification.",
				cov.Framework, cov.CoveragePercentage))
		}
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func categoriesWithSeverity(gaps []Gap, severity string) []string {
	set := map[string]struct{}{}
	for _, g := range gaps {
		if g.Severity == severity {
			set[g.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func join(parts []string) string {
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += ", "
		}
		s += p
	}
	return s
}
