package compliance

import (
	"strings"

	"github.com/veridianlabs/esg-intel/internal/domain/catalog"
	"github.com/veridianlabs/esg-intel/internal/domain/metrics"
)

// Match reasons recorded on findings. When both apply, the metric
// finding wins (higher confidence).
const (
	ReasonKeyword = "keyword"
	ReasonMetric  = "metric"
)

// Finding records whether one requirement was located in the text.
type Finding struct {
	RequirementID   string   `json:"requirement_id"`
	Framework       string   `json:"framework"`
	Category        string   `json:"category"`
	Subcategory     string   `json:"subcategory"`
	Description     string   `json:"description"`
	Found           bool     `json:"found"`
	MatchReason     string   `json:"match_reason,omitempty"`
	Confidence      float64  `json:"confidence"`
	KeywordsMatched []string `json:"keywords_matched,omitempty"`
	Evidence        string   `json:"evidence,omitempty"`
}

// Coverage summarizes one framework's requirement totals.
type Coverage struct {
	Framework          string  `json:"framework"`
	CoveragePercentage float64 `json:"coverage_percentage"`
	RequirementsFound  int     `json:"requirements_found"`
	RequirementsTotal  int     `json:"requirements_total"`
	MandatoryMet       int     `json:"mandatory_met"`
	MandatoryTotal     int     `json:"mandatory_total"`
}

// Gap is an unmet requirement with its severity.
type Gap struct {
	Framework     string `json:"framework"`
	RequirementID string `json:"requirement_id"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Severity      string `json:"severity"`
}

// Result is the full compliance evaluation output.
type Result struct {
	Findings        []Finding  `json:"requirement_findings"`
	Coverage        []Coverage `json:"framework_coverage"`
	Gaps            []Gap      `json:"gap_analysis"`
	Recommendations []string   `json:"recommendations"`
}

// Engine evaluates disclosure text against the catalog.
type Engine struct {
	Catalog *catalog.Catalog
}

// minimum metric confidence for a metric match to mark a requirement found
const metricFoundThreshold = 0.5

// Evaluate scans the normalized text and extracted metrics against the
// requested frameworks. Evaluation is per framework; no framework can
// fail another's pass.
func (e *Engine) Evaluate(normalized string, extracted []metrics.ExtractedMetric, frameworks []catalog.Framework, industry string) Result {
	// Index the best metric per requirement id up front.
	metricByReq := map[string]*metrics.ExtractedMetric{}
	for i := range extracted {
		m := &extracted[i]
		if m.Confidence < metricFoundThreshold {
			continue
		}
		for _, id := range m.FrameworkMappings {
			if cur, ok := metricByReq[id]; !ok || m.Confidence > cur.Confidence {
				metricByReq[id] = m
			}
		}
	}

	var res Result
	for _, fw := range frameworks {
		reqs := e.Catalog.Requirements(fw)
		cov := Coverage{Framework: string(fw), RequirementsTotal: len(reqs)}

		for i := range reqs {
			req := &reqs[i]
			if req.Mandatory {
				cov.MandatoryTotal++
			}

			f := Finding{
				RequirementID: req.ID,
				Framework:     string(fw),
				Category:      req.Category,
				Subcategory:   req.Subcategory,
				Description:   req.Description,
			}

			matched := matchedKeywords(normalized, req.Keywords)
			metric := metricByReq[req.ID]

			switch {
			case metric != nil:
				f.Found = true
				f.MatchReason = ReasonMetric
				f.Confidence = metric.Confidence
				f.Evidence = metric.Snippet
				f.KeywordsMatched = matched
			case len(matched) > 0:
				f.Found = true
				f.MatchReason = ReasonKeyword
				f.Confidence = keywordConfidence(len(matched))
				f.KeywordsMatched = matched
				f.Evidence = evidenceAround(normalized, matched[0])
			}

			if f.Found {
				cov.RequirementsFound++
				if req.Mandatory {
					cov.MandatoryMet++
				}
			} else {
				res.Gaps = append(res.Gaps, Gap{
					Framework:     string(fw),
					RequirementID: req.ID,
					Category:      req.Category,
					Description:   req.Description,
					Severity:      severity(req, industry, normalized),
				})
			}
			res.Findings = append(res.Findings, f)
		}

		cov.CoveragePercentage = coveragePct(cov.RequirementsFound, cov.RequirementsTotal)
		res.Coverage = append(res.Coverage, cov)
	}

	res.Recommendations = recommend(res.Gaps, res.Coverage)
	return res
}

func matchedKeywords(normalized string, keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			out = append(out, kw)
		}
	}
	return out
}

// keywordConfidence grows with the number of distinct keywords matched,
// capped below a metric-grade match.
func keywordConfidence(matches int) float64 {
	c := 0.3 + 0.1*float64(matches)
	if c > 0.9 {
		c = 0.9
	}
	return c
}

func evidenceAround(text, keyword string) string {
	i := strings.Index(text, keyword)
	if i < 0 {
		return ""
	}
	lo := i - 60
	if lo < 0 {
		lo = 0
	}
	hi := i + len(keyword) + 60
	if hi > len(text) {
		hi = len(text)
	}
	return strings.TrimSpace(text[lo:hi])
}

func coveragePct(found, total int) float64 {
	if total == 0 {
		return 0
	}
	pct := 100 * float64(found) / float64(total)
	// one decimal, matching the persisted representation
	return float64(int(pct*10+0.5)) / 10
}

// SortGaps orders gaps by severity (critical first), then framework,
// then requirement id.
func SortGaps(gaps []Gap) {
	rank := map[string]int{
		SeverityCritical: 0,
		SeverityHigh:     1,
		SeverityMedium:   2,
		SeverityLow:      3,
	}
	sortSlice(gaps, func(a, b Gap) bool {
		if rank[a.Severity] != rank[b.Severity] {
			return rank[a.Severity] < rank[b.Severity]
		}
		if a.Framework != b.Framework {
			return a.Framework < b.Framework
		}
		return a.RequirementID < b.RequirementID
	})
}
