package catalog

import (
	"strings"
	"testing"
)

func TestCatalogTotals(t *testing.T) {
	c := MustNew()

	cases := []struct {
		fw        Framework
		total     int
		mandatory int
	}{
		{FrameworkCSRD, 13, 13},
		{FrameworkGRI, 12, 2},
		{FrameworkSASB, 9, 0},
		{FrameworkTCFD, 11, 11},
	}
	for _, tc := range cases {
		s := c.Summarize(tc.fw)
		if s.Total != tc.total {
			t.Errorf("%s: total=%d, want %d", tc.fw, s.Total, tc.total)
		}
		if s.Mandatory != tc.mandatory {
			t.Errorf("%s: mandatory=%d, want %d", tc.fw, s.Mandatory, tc.mandatory)
		}
		if s.Optional != tc.total-tc.mandatory {
			t.Errorf("%s: optional=%d, want %d", tc.fw, s.Optional, tc.total-tc.mandatory)
		}
	}
}

func TestCatalogLookup(t *testing.T) {
	c := MustNew()

	r, ok := c.Get(FrameworkCSRD, "CSRD-E1-3")
	if !ok {
		t.Fatal("CSRD-E1-3 not found")
	}
	if r.Category != "Environmental" || !r.Mandatory {
		t.Errorf("unexpected requirement: %+v", r)
	}

	if _, ok := c.Get(FrameworkGRI, "CSRD-E1-3"); ok {
		t.Error("cross-framework lookup should miss")
	}
	if _, ok := c.Get(FrameworkTCFD, "nope"); ok {
		t.Error("unknown id should miss")
	}
}

func TestCatalogInvariants(t *testing.T) {
	c := MustNew()

	for _, fw := range c.Frameworks() {
		for _, r := range c.Requirements(fw) {
			if len(r.Keywords) < 3 {
				t.Errorf("%s: %d keywords, need >= 3", r.ID, len(r.Keywords))
			}
			for _, kw := range r.Keywords {
				if kw != strings.ToLower(kw) {
					t.Errorf("%s: keyword %q not lowercased", r.ID, kw)
				}
			}
			for _, p := range r.MetricPatterns {
				if p.Regexp() == nil {
					t.Errorf("%s: pattern %q not compiled", r.ID, p.Expr)
				}
			}
		}
	}
}

func TestCatalogDeterministic(t *testing.T) {
	a, b := MustNew(), MustNew()
	for _, fw := range All() {
		sa, sb := a.Summarize(fw), b.Summarize(fw)
		if sa.Total != sb.Total || sa.Mandatory != sb.Mandatory {
			t.Errorf("%s: summaries differ across loads", fw)
		}
	}
}

func TestIndustryCritical(t *testing.T) {
	c := MustNew()

	req, _ := c.Get(FrameworkSASB, "SASB-EM-EP-110a.1") // air quality
	if !IndustryCritical(req, "Energy") {
		t.Error("air quality should be critical for energy sector")
	}
	if IndustryCritical(req, "Finance") {
		t.Error("air quality should not be critical for finance")
	}
	if IndustryCritical(req, "") {
		t.Error("empty industry never critical")
	}

	privacy, _ := c.Get(FrameworkSASB, "SASB-TC-220a.1")
	if !IndustryCritical(privacy, "technology") {
		t.Error("data privacy should be critical for technology")
	}
}

func TestCriticalGroup(t *testing.T) {
	c := MustNew()

	e1, _ := c.Get(FrameworkCSRD, "CSRD-E1-1")
	if !CriticalGroup(e1) {
		t.Error("CSRD-E1-1 should be in the critical group")
	}
	mt, _ := c.Get(FrameworkTCFD, "TCFD-MT-B")
	if !CriticalGroup(mt) {
		t.Error("TCFD-MT-B should be in the critical group")
	}
	gov, _ := c.Get(FrameworkTCFD, "TCFD-GOV-A")
	if CriticalGroup(gov) {
		t.Error("TCFD-GOV-A should not be in the critical group")
	}
}
