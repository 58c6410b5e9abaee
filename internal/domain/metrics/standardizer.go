package metrics

import (
	"errors"
	"math"
	"strings"
)

// Candidate is a raw extraction: a value token, its unit token, and the
// text surrounding the match.
type Candidate struct {
	Name        string
	ValueText   string
	UnitText    string
	UnitHint    string // from the catalog pattern, when the regex has no unit group
	Snippet     string
	Requirement string // requirement id the pattern belongs to, if any
	Framework   string
}

// ExtractedMetric is a standardized metric attached to an analysis.
type ExtractedMetric struct {
	Name              string   `json:"metric_name"`
	RawValue          string   `json:"raw_value"`
	RawUnit           string   `json:"raw_unit"`
	NormalizedValue   float64  `json:"normalized_value"`
	NormalizedUnit    string   `json:"normalized_unit"`
	Currency          string   `json:"currency,omitempty"`
	Confidence        float64  `json:"confidence"`
	Snippet           string   `json:"source_snippet"`
	Scope             string   `json:"scope,omitempty"`
	IsTarget          bool     `json:"is_target,omitempty"`
	FrameworkMappings []string `json:"framework_mappings,omitempty"`
}

var (
	// ErrUnparsable means the value token is not numeric.
	ErrUnparsable = errors.New("metric value unparsable")
	// ErrOutOfRange means the value fails validation for its unit class.
	ErrOutOfRange = errors.New("metric value out of range")
)

// Standardizer converts candidates into normalized metrics.
type Standardizer struct{}

// Standardize normalizes one candidate. A returned error means the
// candidate is dropped; the caller tallies it in diagnostics and keeps
// going.
func (Standardizer) Standardize(c Candidate) (ExtractedMetric, error) {
	value, err := ParseNumber(c.ValueText)
	if err != nil {
		return ExtractedMetric{}, ErrUnparsable
	}

	m := ExtractedMetric{
		Name:     c.Name,
		RawValue: c.ValueText,
		RawUnit:  c.UnitText,
		Snippet:  clampSnippet(c.Snippet),
		Scope:    extractScope(c.Name + " " + c.Snippet),
		IsTarget: isTarget(c.Snippet),
	}

	entry, conf, ok := resolveUnit(c.UnitText)
	switch {
	case ok:
		m.Confidence = conf
	case c.UnitHint != "":
		// Unit inferred from the pattern's context.
		entry, _, ok = resolveUnit(c.UnitHint)
		if !ok {
			entry = unitEntry{canonical: c.UnitHint, factor: 1}
		}
		m.Confidence = 0.6
	default:
		// Value present, unit unknown: keep the raw unit unconverted.
		m.NormalizedValue = value
		m.NormalizedUnit = strings.TrimSpace(c.UnitText)
		m.Confidence = 0.3
		if !validate(m.NormalizedValue, catUnknown) {
			return ExtractedMetric{}, ErrOutOfRange
		}
		return m, nil
	}

	m.NormalizedValue = value * entry.factor
	m.NormalizedUnit = entry.canonical
	if entry.category == catMonetary {
		m.Currency = currencyCode(c.UnitText)
	}

	if entry.category == catPercent {
		if value < 0 || value > 1000 {
			return ExtractedMetric{}, ErrOutOfRange
		}
		if value > 100 {
			// "a 300% increase" style figure: clamp, halve confidence.
			m.NormalizedValue = 100
			m.Confidence *= 0.5
		}
	}

	if !validate(m.NormalizedValue, entry.category) {
		return ExtractedMetric{}, ErrOutOfRange
	}
	return m, nil
}

func validate(v float64, cat unitCategory) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	switch cat {
	case catEmissions, catEnergy, catWater, catWaste, catCount:
		return v >= 0
	case catPercent:
		return v >= 0 && v <= 100
	case catYear:
		return v >= 1900 && v <= 2200
	}
	return true
}

// clampSnippet keeps snippets within the 200 character storage bound,
// trimming to a word boundary.
func clampSnippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= 200 {
		return s
	}
	cut := s[:200]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut
}

func extractScope(s string) string {
	l := strings.ToLower(s)
	switch {
	case strings.Contains(l, "scope 1"):
		return "1"
	case strings.Contains(l, "scope 2"):
		return "2"
	case strings.Contains(l, "scope 3"):
		return "3"
	}
	return ""
}

var targetMarkers = []string{
	"target", "goal", "commitment", "by 2030", "by 2040", "by 2050",
	"plan to", "aim to",
}

func isTarget(s string) bool {
	l := strings.ToLower(s)
	for _, marker := range targetMarkers {
		if strings.Contains(l, marker) {
			return true
		}
	}
	return false
}
