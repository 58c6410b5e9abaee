package catalog

import (
	"fmt"
	"regexp"
	"sort"
)

// Framework tags for the four supported reporting frameworks.
type Framework string

const (
	FrameworkCSRD Framework = "CSRD"
	FrameworkGRI  Framework = "GRI"
	FrameworkSASB Framework = "SASB"
	FrameworkTCFD Framework = "TCFD"
)

// All returns the supported frameworks in stable order.
func All() []Framework {
	return []Framework{FrameworkCSRD, FrameworkGRI, FrameworkSASB, FrameworkTCFD}
}

// Valid reports whether fw names a supported framework.
func Valid(fw Framework) bool {
	switch fw {
	case FrameworkCSRD, FrameworkGRI, FrameworkSASB, FrameworkTCFD:
		return true
	}
	return false
}

// MetricPattern is a regex template attached to a requirement. Group 1
// captures the numeric token; group 2, when present, the unit token.
// UnitHint fills in the unit when the pattern captures only a value.
type MetricPattern struct {
	Expr     string
	UnitHint string
	Name     string

	re *regexp.Regexp
}

// Regexp returns the compiled pattern.
func (p *MetricPattern) Regexp() *regexp.Regexp { return p.re }

// Requirement is a single disclosure requirement within a framework.
type Requirement struct {
	ID             string
	Framework      Framework
	Category       string // Environmental | Social | Governance
	Subcategory    string
	Description    string
	Keywords       []string // lowercased phrases, match-any
	Mandatory      bool
	MetricPatterns []MetricPattern
}

// Catalog is the read-only requirement registry. It is built once at
// startup and shared freely afterwards.
type Catalog struct {
	byFramework map[Framework][]Requirement
	byID        map[Framework]map[string]*Requirement
}

// New builds and validates the full catalog. Invalid pattern syntax is a
// startup-fatal condition, so compilation errors are returned, not skipped.
func New() (*Catalog, error) {
	c := &Catalog{
		byFramework: map[Framework][]Requirement{
			FrameworkCSRD: csrdRequirements(),
			FrameworkGRI:  griRequirements(),
			FrameworkSASB: sasbRequirements(),
			FrameworkTCFD: tcfdRequirements(),
		},
		byID: make(map[Framework]map[string]*Requirement),
	}

	for fw, reqs := range c.byFramework {
		c.byID[fw] = make(map[string]*Requirement, len(reqs))
		for i := range reqs {
			r := &reqs[i]
			if r.Framework != fw {
				return nil, fmt.Errorf("catalog: requirement %s filed under %s", r.ID, fw)
			}
			if len(r.Keywords) < 3 {
				return nil, fmt.Errorf("catalog: requirement %s has %d keywords, need >= 3", r.ID, len(r.Keywords))
			}
			for j := range r.MetricPatterns {
				p := &r.MetricPatterns[j]
				re, err := regexp.Compile("(?i)" + p.Expr)
				if err != nil {
					return nil, fmt.Errorf("catalog: requirement %s pattern %q: %w", r.ID, p.Expr, err)
				}
				p.re = re
			}
			if _, dup := c.byID[fw][r.ID]; dup {
				return nil, fmt.Errorf("catalog: duplicate requirement id %s", r.ID)
			}
			c.byID[fw][r.ID] = r
		}
	}
	return c, nil
}

// MustNew is New for tests and tools where a broken catalog should panic.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// Frameworks lists the populated frameworks in stable order.
func (c *Catalog) Frameworks() []Framework { return All() }

// Requirements returns the requirements of a framework.
func (c *Catalog) Requirements(fw Framework) []Requirement {
	return c.byFramework[fw]
}

// Get looks up a requirement by framework and id.
func (c *Catalog) Get(fw Framework, id string) (*Requirement, bool) {
	r, ok := c.byID[fw][id]
	return r, ok
}

// Summary holds per-framework totals for the /frameworks endpoint.
type Summary struct {
	Name       string   `json:"name"`
	Total      int      `json:"total_requirements"`
	Mandatory  int      `json:"mandatory_requirements"`
	Optional   int      `json:"optional_requirements"`
	Categories []string `json:"categories"`
}

// Summarize computes totals for one framework.
func (c *Catalog) Summarize(fw Framework) Summary {
	reqs := c.byFramework[fw]
	s := Summary{Name: string(fw), Total: len(reqs)}
	cats := map[string]struct{}{}
	for _, r := range reqs {
		if r.Mandatory {
			s.Mandatory++
		}
		cats[r.Category] = struct{}{}
	}
	s.Optional = s.Total - s.Mandatory
	for cat := range cats {
		s.Categories = append(s.Categories, cat)
	}
	sort.Strings(s.Categories)
	return s
}
