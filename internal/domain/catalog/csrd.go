package catalog

// Corporate Sustainability Reporting Directive. Every CSRD requirement is
// mandatory for in-scope EU undertakings.
func csrdRequirements() []Requirement {
	return []Requirement{
		{
			ID:          "CSRD-E1-1",
			Framework:   FrameworkCSRD,
			Category:    "Environmental",
			Subcategory: "Climate Change",
			Description: "Transition plan for climate change mitigation",
			Keywords: []string{
				"transition plan", "climate mitigation", "net zero",
				"carbon neutral", "decarbonization",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)[^.]{0,40}emission[^.]{0,40}reduc`, Name: "emissions_reduction"},
				{Expr: `(?:net zero|carbon neutral)[^.]{0,40}?(\d{4})`, UnitHint: "year", Name: "net_zero_target"},
			},
		},
		{
			ID:          "CSRD-E1-2",
			Framework:   FrameworkCSRD,
			Category:    "Environmental",
			Subcategory: "Climate Change",
			Description: "Physical and transition risks from climate change",
			Keywords: []string{
				"physical risk", "transition risk", "climate risk", "scenario analysis",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)?)\s*(billion|million)[^.]{0,40}risk exposure`, UnitHint: "USD", Name: "risk_exposure"},
			},
		},
		{
			ID:          "CSRD-E1-3",
			Framework:   FrameworkCSRD,
			Category:    "Environmental",
			Subcategory: "Climate Change",
			Description: "GHG emissions and energy consumption",
			Keywords: []string{
				"scope 1", "scope 2", "scope 3", "ghg emissions",
				"greenhouse gas", "energy consumption",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(t|tonnes|tons|ktco2e|mtco2e|tco2e)[^.]{0,20}co2`, UnitHint: "tCO2e", Name: "ghg_emissions"},
				{Expr: `(\d+(?:[.,]\d+)*)\s*(kwh|mwh|gwh|twh|gj|tj)`, Name: "energy_consumption"},
			},
		},
		{
			ID:          "CSRD-E2-1",
			Framework:   FrameworkCSRD,
			Category:    "Environmental",
			Subcategory: "Pollution",
			Description: "Air, water and soil pollution",
			Keywords: []string{
				"air pollution", "water pollution", "soil pollution",
				"emissions to air", "emissions to water",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(mg|g|kg|tonnes)[^.]{0,30}pollutant`, Name: "pollutant_mass"},
			},
		},
		{
			ID:          "CSRD-E3-1",
			Framework:   FrameworkCSRD,
			Category:    "Environmental",
			Subcategory: "Water and Marine Resources",
			Description: "Water consumption and marine resources impact",
			Keywords: []string{
				"water consumption", "water withdrawal", "water discharge",
				"marine resources", "water stress",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(m3|m³|liters|litres|megaliters|megalitres)[^.]{0,30}water`, UnitHint: "m3", Name: "water_volume"},
			},
		},
		{
			ID:          "CSRD-E4-1",
			Framework:   FrameworkCSRD,
			Category:    "Environmental",
			Subcategory: "Biodiversity and Ecosystems",
			Description: "Biodiversity and ecosystems impact",
			Keywords: []string{
				"biodiversity", "ecosystem", "habitat", "deforestation", "nature restoration",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(hectares|ha)[^.]{0,30}land`, UnitHint: "ha", Name: "land_area"},
				{Expr: `(\d+(?:[.,]\d+)*)\s*species[^.]{0,20}protected`, UnitHint: "count", Name: "species_protected"},
			},
		},
		{
			ID:          "CSRD-E5-1",
			Framework:   FrameworkCSRD,
			Category:    "Environmental",
			Subcategory: "Circular Economy",
			Description: "Resource use, circular economy, and waste",
			Keywords: []string{
				"circular economy", "waste", "recycling", "material flow", "resource efficiency",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(tonnes|tons|kg)[^.]{0,20}waste`, Name: "waste_mass"},
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)[^.]{0,20}recycl`, Name: "recycling_rate"},
			},
		},
		{
			ID:          "CSRD-S1-1",
			Framework:   FrameworkCSRD,
			Category:    "Social",
			Subcategory: "Own Workforce",
			Description: "Working conditions and equal treatment",
			Keywords: []string{
				"working conditions", "equal treatment", "non-discrimination",
				"diversity", "inclusion",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)\s*women`, Name: "women_share"},
				{Expr: `(?:diversity|women)[^.]{0,40}?(\d+(?:[.,]\d+)?)\s*(%)`, Name: "diversity_share"},
			},
		},
		{
			ID:          "CSRD-S1-2",
			Framework:   FrameworkCSRD,
			Category:    "Social",
			Subcategory: "Own Workforce",
			Description: "Social dialogue and collective bargaining",
			Keywords: []string{
				"collective bargaining", "trade union", "works council", "social dialogue",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)[^.]{0,30}covered[^.]{0,30}collective`, Name: "bargaining_coverage"},
			},
		},
		{
			ID:          "CSRD-S2-1",
			Framework:   FrameworkCSRD,
			Category:    "Social",
			Subcategory: "Workers in Value Chain",
			Description: "Due diligence on working conditions in the value chain",
			Keywords: []string{
				"value chain", "supply chain", "due diligence", "supplier assessment",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)[^.]{0,30}suppliers[^.]{0,30}assessed`, Name: "suppliers_assessed"},
				{Expr: `(\d+(?:[.,]\d+)*)\s*suppliers[^.]{0,20}audited`, UnitHint: "count", Name: "suppliers_audited"},
			},
		},
		{
			ID:          "CSRD-S3-1",
			Framework:   FrameworkCSRD,
			Category:    "Social",
			Subcategory: "Affected Communities",
			Description: "Human rights and community impact",
			Keywords: []string{
				"human rights", "indigenous rights", "land rights", "community engagement",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*communities[^.]{0,20}engaged`, UnitHint: "count", Name: "communities_engaged"},
				{Expr: `(\d+(?:[.,]\d+)?)\s*(million|billion)[^.]{0,30}community investment`, UnitHint: "USD", Name: "community_investment"},
			},
		},
		{
			ID:          "CSRD-S4-1",
			Framework:   FrameworkCSRD,
			Category:    "Social",
			Subcategory: "Consumers and End-users",
			Description: "Consumer and end-user safety and satisfaction",
			Keywords: []string{
				"consumer safety", "product safety", "data protection", "privacy",
				"customer satisfaction",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*safety incidents`, UnitHint: "count", Name: "safety_incidents"},
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)[^.]{0,30}customer satisfaction`, Name: "customer_satisfaction"},
			},
		},
		{
			ID:          "CSRD-G1-1",
			Framework:   FrameworkCSRD,
			Category:    "Governance",
			Subcategory: "Business Conduct",
			Description: "Anti-corruption and anti-bribery policies",
			Keywords: []string{
				"anti-corruption", "anti-bribery", "business ethics",
				"code of conduct", "whistleblowing",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*corruption cases`, UnitHint: "count", Name: "corruption_cases"},
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)[^.]{0,30}(?:ethics|compliance) training`, Name: "ethics_training"},
			},
		},
	}
}
