package scoring

// Pillar identifiers.
const (
	PillarEnvironmental = "environmental"
	PillarSocial        = "social"
	PillarGovernance    = "governance"
)

// WeightedPhrase maps a lowercased phrase to its scoring weight.
// Domain-critical terms carry weight 2, everything else 1.
type WeightedPhrase struct {
	Phrase string
	Weight float64
}

// pillarCaps are the raw-score targets that map to a 100 score.
var pillarCaps = map[string]float64{
	PillarEnvironmental: 40,
	PillarSocial:        35,
	PillarGovernance:    30,
}

var pillarKeywords = map[string][]WeightedPhrase{
	PillarEnvironmental: {
		{"carbon neutral", 2}, {"net zero", 2}, {"renewable energy", 2},
		{"science-based targets", 2}, {"scope 1", 2}, {"scope 2", 2},
		{"scope 3", 2}, {"transition plan", 2}, {"double materiality", 2},
		{"scenario analysis", 2}, {"1.5 degree", 2},
		{"emissions", 1}, {"climate", 1}, {"sustainability", 1},
		{"recycling", 1}, {"physical risk", 1}, {"transition risk", 1},
		{"biodiversity", 1}, {"water consumption", 1}, {"circular economy", 1},
		{"energy efficiency", 1}, {"waste", 1}, {"deforestation", 1},
		{"taxonomy alignment", 1}, {"climate scenario", 1},
		{"environment", 1}, {"green", 1}, {"eco", 1}, {"conservation", 1},
		{"pollution", 1}, {"carbon footprint", 1}, {"decarbonization", 1},
	},
	PillarSocial: {
		{"human rights", 2}, {"diversity equity inclusion", 2},
		{"employee wellbeing", 2}, {"board diversity", 2},
		{"collective bargaining", 2}, {"due diligence", 2},
		{"diversity", 1}, {"safety", 1}, {"community", 1}, {"training", 1},
		{"inclusion", 1}, {"gender", 1}, {"stakeholder engagement", 1},
		{"value chain workers", 1}, {"affected communities", 1},
		{"consumer safety", 1}, {"data protection", 1}, {"gdpr", 1},
		{"local communities", 1}, {"human capital", 1}, {"customer welfare", 1},
		{"social", 1}, {"employee", 1}, {"workplace", 1}, {"engagement", 1},
		{"working conditions", 1}, {"women", 1}, {"turnover", 1},
	},
	PillarGovernance: {
		{"board independence", 2}, {"executive compensation", 2},
		{"audit committee", 2}, {"anti-corruption", 2},
		{"whistleblower protection", 2}, {"board oversight", 2},
		{"governance", 1}, {"ethics", 1}, {"compliance", 1},
		{"transparency", 1}, {"remuneration policy", 1},
		{"business conduct", 1}, {"code of conduct", 1},
		{"risk committee", 1}, {"climate governance", 1},
		{"systemic risk", 1}, {"lobbying", 1}, {"political influence", 1},
		{"board", 1}, {"management", 1}, {"oversight", 1}, {"control", 1},
		{"shareholder", 1}, {"disclosure", 1}, {"accountability", 1},
	},
}
