package analysis

import (
	"fmt"
	"strings"

	"github.com/veridianlabs/esg-intel/internal/domain/compliance"
	"github.com/veridianlabs/esg-intel/internal/domain/scoring"
)

const maxInsights = 8

// BuildInsights derives the human-readable insight list from scores,
// normalized text, and notable gaps.
func BuildInsights(scores scoring.PillarScores, normalized string, gaps []compliance.Gap) []string {
	var insights []string

	pillars := []struct {
		name  string
		score float64
	}{
		{"environmental", scores.Environmental},
		{"social", scores.Social},
		{"governance", scores.Governance},
	}
	for _, p := range pillars {
		switch {
		case p.score < 50:
			insights = append(insights, fmt.Sprintf("Improve %s disclosure and performance", p.name))
		case p.score > 80:
			insights = append(insights, fmt.Sprintf("Strong %s performance detected", p.name))
		}
	}

	if strings.Contains(normalized, "net zero") {
		insights = append(insights, "Net-zero commitment identified")
	}
	if strings.Contains(normalized, "diversity") && strings.Contains(normalized, "target") {
		insights = append(insights, "Diversity targets mentioned")
	}
	if strings.Contains(normalized, "science-based targets") {
		insights = append(insights, "Science-based targets referenced")
	}

	critical := 0
	for _, g := range gaps {
		if g.Severity == compliance.SeverityCritical {
			critical++
		}
	}
	if critical > 0 {
		insights = append(insights, fmt.Sprintf("%d critical disclosure gaps require attention", critical))
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}
