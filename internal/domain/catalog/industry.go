package catalog

import "strings"

// Industry severity data. Sectors map to topic markers; a gap on an
// optional requirement whose description carries a marker for the
// analyzed sector is upgraded to high severity. The lists are
// deliberately conservative and shipped as catalog data so they can be
// reviewed alongside the requirements.
var industryCritical = map[string][]string{
	"energy":        {"emission", "air quality", "climate"},
	"utilities":     {"emission", "water", "climate"},
	"oil & gas":     {"emission", "air quality", "water"},
	"technology":    {"data", "privacy", "energy"},
	"finance":       {"data", "privacy", "inclusion"},
	"manufacturing": {"supply chain", "value chain", "waste"},
	"automotive":    {"supply chain", "emission"},
	"healthcare":    {"product safety", "privacy"},
}

// IndustryCritical reports whether a requirement is sector-critical for
// the given industry. Matching is case-insensitive against the
// requirement description and subcategory.
func IndustryCritical(r *Requirement, industry string) bool {
	if industry == "" {
		return false
	}
	markers, ok := industryCritical[strings.ToLower(strings.TrimSpace(industry))]
	if !ok {
		return false
	}
	desc := strings.ToLower(r.Description + " " + r.Subcategory)
	for _, m := range markers {
		if strings.Contains(desc, m) {
			return true
		}
	}
	return false
}

// CriticalGroup reports whether a requirement belongs to a framework's
// critical disclosure group: CSRD climate change (E1) and TCFD metrics
// and targets (MT). Missing a mandatory requirement in one of these
// groups is a critical gap.
func CriticalGroup(r *Requirement) bool {
	return strings.HasPrefix(r.ID, "CSRD-E1") || strings.HasPrefix(r.ID, "TCFD-MT")
}
