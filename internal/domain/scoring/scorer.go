package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/veridianlabs/esg-intel/internal/domain/sentiment"
)

// PillarScores holds the category scores of one analysis. All values
// are in [0,100]; Overall is the equal-weight mean of the pillars.
type PillarScores struct {
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Governance    float64 `json:"governance"`
	Overall       float64 `json:"overall"`
}

// occurrence cap per phrase, so repeated boilerplate can't stuff scores
const maxOccurrences = 5

// Normalize lowercases, collapses whitespace, and strips punctuation
// except ".", "%", and "-". All keyword and compliance matching runs on
// this form.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r == '.' || r == '%' || r == '-':
			b.WriteRune(r)
			lastSpace = false
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Scorer computes pillar scores from normalized text.
type Scorer struct{}

// Score computes the three pillar scores and their mean.
func (s Scorer) Score(normalized string) PillarScores {
	return s.ScoreWithSentiment(normalized, nil)
}

// ScoreWithSentiment applies the optional sentiment adjustment before
// clamping: positive raises and negative lowers each pillar by
// min(5, 10*confidence).
func (s Scorer) ScoreWithSentiment(normalized string, sig *sentiment.Signal) PillarScores {
	adjust := 0.0
	if sig != nil {
		delta := math.Min(5, 10*sig.Confidence)
		switch sig.Label {
		case sentiment.LabelPositive:
			adjust = delta
		case sentiment.LabelNegative:
			adjust = -delta
		}
	}

	pillar := func(name string) float64 {
		raw := 0.0
		for _, wp := range pillarKeywords[name] {
			n := strings.Count(normalized, wp.Phrase)
			if n > maxOccurrences {
				n = maxOccurrences
			}
			raw += wp.Weight * float64(n)
		}
		// Base score saturates at 100 first; the sentiment delta applies
		// to the saturated value and is clamped separately.
		score := math.Min(100, round1(100*raw/pillarCaps[name]))
		score = clamp(score+adjust, 0, 100)
		return round1(score)
	}

	ps := PillarScores{
		Environmental: pillar(PillarEnvironmental),
		Social:        pillar(PillarSocial),
		Governance:    pillar(PillarGovernance),
	}
	ps.Overall = round1((ps.Environmental + ps.Social + ps.Governance) / 3)
	return ps
}

// TopKeywords ranks the scoring vocabulary phrases found in the text by
// weight times occurrences and returns the top n.
func (s Scorer) TopKeywords(normalized string, n int) []string {
	type hit struct {
		phrase string
		score  float64
	}
	var hits []hit
	for _, table := range pillarKeywords {
		for _, wp := range table {
			if c := strings.Count(normalized, wp.Phrase); c > 0 {
				occ := c
				if occ > maxOccurrences {
					occ = maxOccurrences
				}
				hits = append(hits, hit{wp.Phrase, wp.Weight * float64(occ)})
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].phrase < hits[j].phrase
	})
	if len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.phrase
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
