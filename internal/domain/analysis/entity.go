package analysis

import (
	"time"

	"github.com/veridianlabs/esg-intel/internal/domain/catalog"
	"github.com/veridianlabs/esg-intel/internal/domain/compliance"
	"github.com/veridianlabs/esg-intel/internal/domain/metrics"
	"github.com/veridianlabs/esg-intel/internal/domain/scoring"
	"github.com/veridianlabs/esg-intel/internal/domain/sentiment"
)

// AnalysisID identifier type
type AnalysisID string

// Kind enum
type Kind string

const (
	KindQuick Kind = "quick"
	KindFull  Kind = "full"
)

// SourceText marks analyses fed from inline text rather than a URL.
const SourceText = "direct_text"

// Aggregate root: one immutable analysis of a disclosure document. The
// result graph (metrics, coverage, gaps, findings) is held by value;
// requirement references are id strings owned by the catalog.
type Analysis struct {
	ID              AnalysisID          `json:"id"`
	UserID          string              `json:"user_id"`
	Source          string              `json:"source"`
	Fingerprint     string              `json:"fingerprint"`
	CompanyName     string              `json:"company_name,omitempty"`
	Kind            Kind                `json:"analysis_type"`
	IndustrySector  string              `json:"industry_sector,omitempty"`
	ReportingPeriod string              `json:"reporting_period,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	Frameworks      []catalog.Framework `json:"frameworks"`

	Scores     scoring.PillarScores `json:"scores"`
	Keywords   []string             `json:"keywords"`
	Insights   []string             `json:"insights"`
	Sentiment  *sentiment.Signal    `json:"sentiment,omitempty"`
	Confidence float64              `json:"confidence"`

	ExtractedMetrics  []metrics.ExtractedMetric `json:"extracted_metrics,omitempty"`
	FrameworkCoverage []compliance.Coverage     `json:"framework_coverage,omitempty"`
	Gaps              []compliance.Gap          `json:"gap_analysis,omitempty"`
	Findings          []compliance.Finding      `json:"requirement_findings,omitempty"`
	Recommendations   []string                  `json:"recommendations,omitempty"`

	Diagnostics metrics.Diagnostics `json:"diagnostics"`
}

// CoverageAverage returns the mean coverage percentage across the
// analysis' framework coverages, one decimal.
func (a *Analysis) CoverageAverage() float64 {
	if len(a.FrameworkCoverage) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range a.FrameworkCoverage {
		sum += c.CoveragePercentage
	}
	avg := sum / float64(len(a.FrameworkCoverage))
	return float64(int(avg*10+0.5)) / 10
}

// Benchmark is a sector-level aggregate used as a comparison baseline.
type Benchmark struct {
	Sector        string  `json:"sector,omitempty"`
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Governance    float64 `json:"governance"`
	Overall       float64 `json:"overall"`
	SampleSize    int     `json:"sample_size"`
}
