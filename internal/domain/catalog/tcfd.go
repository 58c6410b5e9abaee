package catalog

// Task Force on Climate-related Financial Disclosures. All eleven
// recommended disclosures are treated as mandatory.
func tcfdRequirements() []Requirement {
	return []Requirement{
		{
			ID:          "TCFD-GOV-A",
			Framework:   FrameworkTCFD,
			Category:    "Governance",
			Subcategory: "Board Oversight",
			Description: "Board's oversight of climate-related risks and opportunities",
			Keywords: []string{
				"board oversight", "climate governance", "board responsibility", "climate committee",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*board meetings[^.]{0,20}climate`, UnitHint: "count", Name: "board_meetings_climate"},
			},
		},
		{
			ID:          "TCFD-GOV-B",
			Framework:   FrameworkTCFD,
			Category:    "Governance",
			Subcategory: "Management Role",
			Description: "Management's role in assessing and managing climate-related risks",
			Keywords: []string{
				"management role", "climate management", "executive responsibility", "climate officer",
			},
			Mandatory: true,
		},
		{
			ID:          "TCFD-STR-A",
			Framework:   FrameworkTCFD,
			Category:    "Environmental",
			Subcategory: "Climate Risks and Opportunities",
			Description: "Climate-related risks and opportunities over short, medium, and long term",
			Keywords: []string{
				"climate risks", "climate opportunities", "physical risk",
				"transition risk", "time horizons",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*climate risks`, UnitHint: "count", Name: "climate_risks"},
				{Expr: `(\d+(?:[.,]\d+)*)\s*climate opportunities`, UnitHint: "count", Name: "climate_opportunities"},
			},
		},
		{
			ID:          "TCFD-STR-B",
			Framework:   FrameworkTCFD,
			Category:    "Environmental",
			Subcategory: "Business Impact",
			Description: "Impact of climate risks and opportunities on business, strategy, and financial planning",
			Keywords: []string{
				"business impact", "strategic impact", "financial impact", "climate strategy",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)?)\s*(million|billion)[^.]{0,30}climate impact`, UnitHint: "USD", Name: "climate_impact_value"},
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)[^.]{0,20}revenue[^.]{0,20}climate`, Name: "climate_revenue_share"},
			},
		},
		{
			ID:          "TCFD-STR-C",
			Framework:   FrameworkTCFD,
			Category:    "Environmental",
			Subcategory: "Climate Scenarios",
			Description: "Resilience of strategy under different climate-related scenarios",
			Keywords: []string{
				"scenario analysis", "climate scenarios", "stress testing",
				"2 degree", "1.5 degree",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)?)\s*degree scenario`, UnitHint: "count", Name: "degree_scenario"},
				{Expr: `(\d+(?:[.,]\d+)*)\s*scenarios analy[sz]ed`, UnitHint: "count", Name: "scenarios_analyzed"},
			},
		},
		{
			ID:          "TCFD-RM-A",
			Framework:   FrameworkTCFD,
			Category:    "Governance",
			Subcategory: "Risk Identification",
			Description: "Processes for identifying and assessing climate-related risks",
			Keywords: []string{
				"risk identification", "risk assessment", "climate risk process", "risk methodology",
			},
			Mandatory: true,
		},
		{
			ID:          "TCFD-RM-B",
			Framework:   FrameworkTCFD,
			Category:    "Governance",
			Subcategory: "Risk Management",
			Description: "Processes for managing climate-related risks",
			Keywords: []string{
				"risk management", "risk mitigation", "climate risk controls", "risk monitoring",
			},
			Mandatory: true,
		},
		{
			ID:          "TCFD-RM-C",
			Framework:   FrameworkTCFD,
			Category:    "Governance",
			Subcategory: "Risk Integration",
			Description: "Integration of climate-related risks into overall risk management",
			Keywords: []string{
				"risk integration", "enterprise risk", "integrated risk", "overall risk management",
			},
			Mandatory: true,
		},
		{
			ID:          "TCFD-MT-A",
			Framework:   FrameworkTCFD,
			Category:    "Environmental",
			Subcategory: "Climate Metrics",
			Description: "Metrics used to assess climate-related risks and opportunities",
			Keywords: []string{
				"climate metrics", "risk metrics", "opportunity metrics", "performance indicators",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*climate metrics`, UnitHint: "count", Name: "climate_metrics"},
			},
		},
		{
			ID:          "TCFD-MT-B",
			Framework:   FrameworkTCFD,
			Category:    "Environmental",
			Subcategory: "GHG Emissions",
			Description: "Scope 1, 2, and if appropriate, Scope 3 GHG emissions and related risks",
			Keywords: []string{
				"scope 1", "scope 2", "scope 3", "ghg emissions",
				"carbon footprint", "emissions data",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(t|tonnes|tons|tco2e|ktco2e|mtco2e)[^.]{0,20}(?:co2|emissions)`, UnitHint: "tCO2e", Name: "ghg_emissions"},
			},
		},
		{
			ID:          "TCFD-MT-C",
			Framework:   FrameworkTCFD,
			Category:    "Environmental",
			Subcategory: "Climate Targets",
			Description: "Targets used to manage climate-related risks and opportunities",
			Keywords: []string{
				"climate targets", "emission targets", "net zero",
				"carbon neutral", "reduction targets",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)[^.]{0,30}reduction target`, Name: "reduction_target"},
				{Expr: `(?:net zero|carbon neutral)[^.]{0,40}?(\d{4})`, UnitHint: "year", Name: "target_year"},
			},
		},
	}
}
