package metrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/veridianlabs/esg-intel/internal/domain/catalog"
)

// Diagnostics tallies per-analysis extraction outcomes. Candidate
// failures never halt the pipeline; they are counted here.
type Diagnostics struct {
	Candidates int `json:"candidates"`
	Extracted  int `json:"extracted"`
	Dropped    int `json:"dropped"`
}

// namedPattern is a built-in extraction pattern independent of any
// single requirement.
type namedPattern struct {
	name string
	re   *regexp.Regexp
}

var builtinPatterns = []namedPattern{
	{"emissions_reduction", regexp.MustCompile(`(?i)reduced[^.]{0,60}?emissions?[^.]{0,60}?by\s*(\d+(?:[.,]\d+)?)\s*(%|percent)`)},
	{"renewable_energy", regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(%|percent)[^.]{0,40}renewable energy`)},
	{"board_diversity", regexp.MustCompile(`(?i)board diversity[^.]{0,60}?(\d+(?:[.,]\d+)?)\s*(%|percent)`)},
	{"employee_turnover", regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(%|percent)[^.]{0,30}turnover`)},
}

// genericPattern catches any number directly followed by a recognized
// unit token.
var genericPattern = regexp.MustCompile(`(?i)(\d+(?:[.,\x{00A0} ]\d+)*(?:\.\d+)?(?:e\d+)?)\s*(tco2e|ktco2e|mtco2e|kg\s*co2e?|tonnes?\s*(?:of\s*)?co2|tons?\s*(?:of\s*)?co2|mwh|gwh|twh|kwh|gj|tj|m3|m³|megalit(?:er|re)s|lit(?:er|re)s|gallons|%|percent)`)

// Extractor recovers metric candidates from disclosure text using the
// catalog's per-requirement patterns plus the built-in generic ones.
type Extractor struct {
	Catalog      *catalog.Catalog
	Standardizer Standardizer
}

// Extract scans text against the requested frameworks, standardizes
// every candidate, maps results back to requirement ids, and dedupes.
func (e *Extractor) Extract(text string, frameworks []catalog.Framework) ([]ExtractedMetric, Diagnostics) {
	var (
		diag Diagnostics
		out  []ExtractedMetric
		seen = map[string]int{}
	)

	standardize := func(c Candidate) {
		diag.Candidates++
		m, err := e.Standardizer.Standardize(c)
		if err != nil {
			diag.Dropped++
			return
		}
		if c.Requirement != "" {
			m.FrameworkMappings = append(m.FrameworkMappings, c.Requirement)
		}
		key := fmt.Sprintf("%s|%g|%s", m.Name, m.NormalizedValue, m.NormalizedUnit)
		if i, dup := seen[key]; dup {
			// Merge framework mappings from duplicate sightings.
			out[i].FrameworkMappings = mergeMappings(out[i].FrameworkMappings, m.FrameworkMappings)
			return
		}
		seen[key] = len(out)
		diag.Extracted++
		out = append(out, m)
	}

	// Requirement-specific patterns first: they carry names and
	// framework links.
	for _, fw := range frameworks {
		for _, req := range e.Catalog.Requirements(fw) {
			for i := range req.MetricPatterns {
				p := &req.MetricPatterns[i]
				for _, loc := range p.Regexp().FindAllStringSubmatchIndex(text, -1) {
					c := candidateFromMatch(text, loc, p.Name)
					c.UnitHint = p.UnitHint
					c.Requirement = req.ID
					c.Framework = string(fw)
					standardize(c)
				}
			}
		}
	}

	// Built-in named patterns.
	for _, np := range builtinPatterns {
		for _, loc := range np.re.FindAllStringSubmatchIndex(text, -1) {
			standardize(candidateFromMatch(text, loc, np.name))
		}
	}

	// Generic numeric-with-unit sweep.
	for _, loc := range genericPattern.FindAllStringSubmatchIndex(text, -1) {
		c := candidateFromMatch(text, loc, "")
		if c.Name == "" {
			c.Name = genericName(c.UnitText)
		}
		standardize(c)
	}

	e.mapFrameworks(out, frameworks)
	return out, diag
}

// candidateFromMatch builds a candidate from submatch indexes: group 1
// is the value, group 2 (when present) the unit.
func candidateFromMatch(text string, loc []int, name string) Candidate {
	c := Candidate{Name: name}
	if len(loc) >= 4 && loc[2] >= 0 {
		c.ValueText = text[loc[2]:loc[3]]
	}
	if len(loc) >= 6 && loc[4] >= 0 {
		c.UnitText = text[loc[4]:loc[5]]
	}
	c.Snippet = snippetAround(text, loc[0], loc[1])
	return c
}

// snippetAround returns up to 80 characters before and after the match,
// trimmed to word boundaries.
func snippetAround(text string, start, end int) string {
	lo := start - 80
	if lo < 0 {
		lo = 0
	}
	hi := end + 80
	if hi > len(text) {
		hi = len(text)
	}
	s := text[lo:hi]
	if lo > 0 {
		if i := strings.IndexByte(s, ' '); i >= 0 {
			s = s[i+1:]
		}
	}
	if hi < len(text) {
		if i := strings.LastIndexByte(s, ' '); i > 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

func genericName(unit string) string {
	entry, _, ok := resolveUnit(unit)
	if !ok {
		return "quantity"
	}
	switch entry.canonical {
	case UnitTCO2e:
		return "ghg_emissions"
	case UnitMWh:
		return "energy_consumption"
	case UnitM3:
		return "water_volume"
	case UnitPercent:
		return "percentage_figure"
	case UnitTons:
		return "material_mass"
	default:
		return "quantity"
	}
}

// mapFrameworks cross-matches every standardized metric against the
// requested requirements' patterns and attaches matching ids.
func (e *Extractor) mapFrameworks(ms []ExtractedMetric, frameworks []catalog.Framework) {
	for i := range ms {
		snippet := ms[i].Snippet
		if snippet == "" {
			continue
		}
		for _, fw := range frameworks {
			for _, req := range e.Catalog.Requirements(fw) {
				for j := range req.MetricPatterns {
					if req.MetricPatterns[j].Regexp().MatchString(snippet) {
						ms[i].FrameworkMappings = mergeMappings(ms[i].FrameworkMappings, []string{req.ID})
						break
					}
				}
			}
		}
	}
}

func mergeMappings(into, add []string) []string {
	for _, id := range add {
		found := false
		for _, have := range into {
			if have == id {
				found = true
				break
			}
		}
		if !found {
			into = append(into, id)
		}
	}
	return into
}
