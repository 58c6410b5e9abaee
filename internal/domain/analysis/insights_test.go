package analysis

import (
	"strings"
	"testing"

	"github.com/veridianlabs/esg-intel/internal/domain/compliance"
	"github.com/veridianlabs/esg-intel/internal/domain/scoring"
)

func TestBuildInsightsScoreBased(t *testing.T) {
	low := scoring.PillarScores{Environmental: 20, Social: 90, Governance: 55}
	insights := BuildInsights(low, "", nil)

	joined := strings.Join(insights, "|")
	if !strings.Contains(joined, "Improve environmental") {
		t.Errorf("low environmental score should prompt an insight: %v", insights)
	}
	if !strings.Contains(joined, "Strong social") {
		t.Errorf("high social score should prompt an insight: %v", insights)
	}
}

func TestBuildInsightsContentBased(t *testing.T) {
	text := scoring.Normalize("We target net zero by 2035 and set a diversity target of 40%.")
	insights := BuildInsights(scoring.PillarScores{Environmental: 60, Social: 60, Governance: 60}, text, nil)

	joined := strings.Join(insights, "|")
	if !strings.Contains(joined, "Net-zero commitment") {
		t.Errorf("net zero text should be surfaced: %v", insights)
	}
	if !strings.Contains(joined, "Diversity targets") {
		t.Errorf("diversity target text should be surfaced: %v", insights)
	}
}

func TestBuildInsightsGapCount(t *testing.T) {
	gaps := []compliance.Gap{
		{Severity: compliance.SeverityCritical},
		{Severity: compliance.SeverityCritical},
		{Severity: compliance.SeverityMedium},
	}
	insights := BuildInsights(scoring.PillarScores{Environmental: 60, Social: 60, Governance: 60}, "", gaps)
	if !strings.Contains(strings.Join(insights, "|"), "2 critical") {
		t.Errorf("critical gap count missing: %v", insights)
	}
}

func TestBuildInsightsCap(t *testing.T) {
	text := scoring.Normalize("net zero diversity target science-based targets")
	gaps := []compliance.Gap{{Severity: compliance.SeverityCritical}}
	insights := BuildInsights(scoring.PillarScores{Environmental: 10, Social: 10, Governance: 95}, text, gaps)
	if len(insights) > 8 {
		t.Errorf("insights capped at 8, got %d", len(insights))
	}
}
