package compliance

import (
	"testing"

	"github.com/veridianlabs/esg-intel/internal/domain/catalog"
	"github.com/veridianlabs/esg-intel/internal/domain/metrics"
	"github.com/veridianlabs/esg-intel/internal/domain/scoring"
)

func engine() *Engine {
	return &Engine{Catalog: catalog.MustNew()}
}

func coverageFor(res Result, fw string) *Coverage {
	for i := range res.Coverage {
		if res.Coverage[i].Framework == fw {
			return &res.Coverage[i]
		}
	}
	return nil
}

func findingFor(res Result, id string) *Finding {
	for i := range res.Findings {
		if res.Findings[i].RequirementID == id {
			return &res.Findings[i]
		}
	}
	return nil
}

func TestEvaluateKeywordMatch(t *testing.T) {
	e := engine()
	text := scoring.Normalize("Our transition plan targets net zero by 2040. Scope 1 and scope 2 ghg emissions fell.")

	res := e.Evaluate(text, nil, []catalog.Framework{catalog.FrameworkCSRD}, "")

	cov := coverageFor(res, "CSRD")
	if cov == nil {
		t.Fatal("no CSRD coverage")
	}
	if cov.RequirementsTotal != 13 || cov.MandatoryTotal != 13 {
		t.Errorf("totals: %+v", cov)
	}
	if cov.RequirementsFound == 0 || cov.CoveragePercentage == 0 {
		t.Errorf("expected some coverage: %+v", cov)
	}
	wantPct := float64(int(100*float64(cov.RequirementsFound)/float64(cov.RequirementsTotal)*10+0.5)) / 10
	if cov.CoveragePercentage != wantPct {
		t.Errorf("coverage pct=%v, want %v", cov.CoveragePercentage, wantPct)
	}
	if cov.MandatoryMet > cov.MandatoryTotal || cov.MandatoryTotal > cov.RequirementsTotal {
		t.Errorf("mandatory invariant violated: %+v", cov)
	}

	f := findingFor(res, "CSRD-E1-1")
	if f == nil || !f.Found || f.MatchReason != ReasonKeyword {
		t.Errorf("CSRD-E1-1 finding: %+v", f)
	}
	if len(f.KeywordsMatched) == 0 || f.Confidence <= 0 {
		t.Errorf("keyword finding lacks evidence: %+v", f)
	}

	if len(res.Gaps)+cov.RequirementsFound != cov.RequirementsTotal {
		t.Errorf("gaps (%d) + found (%d) != total (%d)", len(res.Gaps), cov.RequirementsFound, cov.RequirementsTotal)
	}
}

func TestEvaluateMetricPreferred(t *testing.T) {
	e := engine()
	// Text matches CSRD-E1-3 keywords AND a high-confidence metric maps
	// to it: the metric reason must win.
	text := scoring.Normalize("ghg emissions totalled 12,500 tCO2e this year")
	extracted := []metrics.ExtractedMetric{{
		Name:              "ghg_emissions",
		NormalizedValue:   12500,
		NormalizedUnit:    metrics.UnitTCO2e,
		Confidence:        1.0,
		Snippet:           "ghg emissions totalled 12,500 tCO2e this year",
		FrameworkMappings: []string{"CSRD-E1-3"},
	}}

	res := e.Evaluate(text, extracted, []catalog.Framework{catalog.FrameworkCSRD}, "")
	f := findingFor(res, "CSRD-E1-3")
	if f == nil || !f.Found {
		t.Fatalf("CSRD-E1-3 not found: %+v", f)
	}
	if f.MatchReason != ReasonMetric {
		t.Errorf("match reason=%s, want metric", f.MatchReason)
	}
	if f.Confidence != 1.0 {
		t.Errorf("confidence=%v, want 1.0", f.Confidence)
	}
}

func TestEvaluateLowConfidenceMetricIgnored(t *testing.T) {
	e := engine()
	extracted := []metrics.ExtractedMetric{{
		Name:              "mystery",
		NormalizedValue:   7,
		Confidence:        0.3, // below the found threshold
		FrameworkMappings: []string{"CSRD-E2-1"},
	}}
	res := e.Evaluate("nothing relevant here", extracted, []catalog.Framework{catalog.FrameworkCSRD}, "")
	if f := findingFor(res, "CSRD-E2-1"); f.Found {
		t.Error("a 0.3-confidence metric must not mark a requirement found")
	}
}

func TestGapSeverityPolicy(t *testing.T) {
	e := engine()

	// Empty text: every requirement is a gap with no partial overlap.
	res := e.Evaluate("zzz qqq", nil,
		[]catalog.Framework{catalog.FrameworkCSRD, catalog.FrameworkTCFD, catalog.FrameworkSASB}, "")

	bySev := map[string]string{}
	for _, g := range res.Gaps {
		bySev[g.RequirementID] = g.Severity
	}

	// mandatory + critical group
	if bySev["CSRD-E1-1"] != SeverityCritical {
		t.Errorf("CSRD-E1-1 severity=%s, want critical", bySev["CSRD-E1-1"])
	}
	if bySev["TCFD-MT-B"] != SeverityCritical {
		t.Errorf("TCFD-MT-B severity=%s, want critical", bySev["TCFD-MT-B"])
	}
	// mandatory, not critical group
	if bySev["TCFD-GOV-A"] != SeverityHigh {
		t.Errorf("TCFD-GOV-A severity=%s, want high", bySev["TCFD-GOV-A"])
	}
	// optional
	if bySev["SASB-TC-220a.1"] != SeverityMedium {
		t.Errorf("SASB-TC-220a.1 severity=%s, want medium", bySev["SASB-TC-220a.1"])
	}
}

func TestGapSeverityIndustryUpgrade(t *testing.T) {
	e := engine()
	res := e.Evaluate("zzz", nil, []catalog.Framework{catalog.FrameworkSASB}, "energy")
	for _, g := range res.Gaps {
		if g.RequirementID == "SASB-EM-EP-110a.1" {
			if g.Severity != SeverityHigh {
				t.Errorf("air quality gap for energy sector severity=%s, want high", g.Severity)
			}
			return
		}
	}
	t.Fatal("SASB-EM-EP-110a.1 gap missing")
}

func TestGapSeverityPartialOverlapOnCritical(t *testing.T) {
	e := engine()
	// "transition" alone is a fragment of "transition plan": even the
	// critical-group CSRD-E1-1 gap drops to low on partial overlap.
	text := scoring.Normalize("transition arrangements are being discussed")
	res := e.Evaluate(text, nil, []catalog.Framework{catalog.FrameworkCSRD}, "")
	for _, g := range res.Gaps {
		if g.RequirementID == "CSRD-E1-1" {
			if g.Severity != SeverityLow {
				t.Errorf("critical gap with partial overlap severity=%s, want low", g.Severity)
			}
			return
		}
	}
	t.Fatal("CSRD-E1-1 gap missing")
}

func TestGapSeverityPartialOverlap(t *testing.T) {
	e := engine()
	// "bargaining" alone is a fragment of "collective bargaining":
	// CSRD-S1-2 stays a gap but drops to low.
	text := scoring.Normalize("bargaining happens informally")
	res := e.Evaluate(text, nil, []catalog.Framework{catalog.FrameworkCSRD}, "")
	for _, g := range res.Gaps {
		if g.RequirementID == "CSRD-S1-2" {
			if g.Severity != SeverityLow {
				t.Errorf("partial overlap severity=%s, want low", g.Severity)
			}
			return
		}
	}
	t.Fatal("CSRD-S1-2 gap missing")
}

func TestSortGaps(t *testing.T) {
	gaps := []Gap{
		{Framework: "GRI", RequirementID: "B", Severity: SeverityMedium},
		{Framework: "CSRD", RequirementID: "A", Severity: SeverityCritical},
		{Framework: "CSRD", RequirementID: "C", Severity: SeverityHigh},
		{Framework: "CSRD", RequirementID: "B", Severity: SeverityHigh},
		{Framework: "TCFD", RequirementID: "Z", Severity: SeverityLow},
	}
	SortGaps(gaps)

	wantOrder := []string{"A", "B", "C", "B", "Z"}
	for i, g := range gaps {
		if g.RequirementID != wantOrder[i] {
			t.Fatalf("order[%d]=%s, want %s (got %+v)", i, g.RequirementID, wantOrder[i], gaps)
		}
	}
	if gaps[0].Severity != SeverityCritical || gaps[len(gaps)-1].Severity != SeverityLow {
		t.Error("severity ordering broken")
	}
}

func TestRecommendations(t *testing.T) {
	e := engine()
	res := e.Evaluate("zzz", nil, []catalog.Framework{catalog.FrameworkCSRD}, "")
	if len(res.Recommendations) == 0 {
		t.Error("zero coverage should yield recommendations")
	}
	if len(res.Recommendations) > 10 {
		t.Errorf("recommendations capped at 10, got %d", len(res.Recommendations))
	}
}
