package catalog

// Global Reporting Initiative. Only the universal standards (GRI 2) are
// mandatory; topic standards apply where material.
func griRequirements() []Requirement {
	return []Requirement{
		{
			ID:          "GRI-2-1",
			Framework:   FrameworkGRI,
			Category:    "Governance",
			Subcategory: "Organizational Details",
			Description: "Organizational details and reporting boundary",
			Keywords: []string{
				"organizational structure", "reporting boundary", "subsidiaries", "joint ventures",
			},
			Mandatory: true,
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*countries`, UnitHint: "count", Name: "countries_of_operation"},
				{Expr: `(\d+(?:[.,]\d+)*)\s*(employees|workers|staff)`, UnitHint: "count", Name: "total_employees"},
			},
		},
		{
			ID:          "GRI-2-6",
			Framework:   FrameworkGRI,
			Category:    "Governance",
			Subcategory: "Strategy and Analysis",
			Description: "Statement from senior decision-maker",
			Keywords: []string{
				"ceo statement", "leadership message", "senior management", "strategy statement",
			},
			Mandatory: true,
		},
		{
			ID:          "GRI-302-1",
			Framework:   FrameworkGRI,
			Category:    "Environmental",
			Subcategory: "Energy",
			Description: "Energy consumption within the organization",
			Keywords: []string{
				"energy consumption", "renewable energy", "electricity use", "fuel consumption",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(kwh|mwh|gwh|twh|gj|tj)`, Name: "energy_consumed"},
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)[^.]{0,30}renewable`, Name: "renewable_share"},
			},
		},
		{
			ID:          "GRI-305-1",
			Framework:   FrameworkGRI,
			Category:    "Environmental",
			Subcategory: "Emissions",
			Description: "Direct (Scope 1) GHG emissions",
			Keywords: []string{
				"scope 1", "direct emissions", "ghg emissions", "co2 emissions",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(t|tonnes|tco2e|ktco2e)[^.]{0,30}scope 1`, UnitHint: "tCO2e", Name: "scope1_emissions"},
			},
		},
		{
			ID:          "GRI-305-2",
			Framework:   FrameworkGRI,
			Category:    "Environmental",
			Subcategory: "Emissions",
			Description: "Energy indirect (Scope 2) GHG emissions",
			Keywords: []string{
				"scope 2", "indirect emissions", "energy emissions", "electricity emissions",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(t|tonnes|tco2e|ktco2e)[^.]{0,30}scope 2`, UnitHint: "tCO2e", Name: "scope2_emissions"},
			},
		},
		{
			ID:          "GRI-305-3",
			Framework:   FrameworkGRI,
			Category:    "Environmental",
			Subcategory: "Emissions",
			Description: "Other indirect (Scope 3) GHG emissions",
			Keywords: []string{
				"scope 3", "value chain emissions", "supply chain emissions", "other indirect",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(t|tonnes|tco2e|ktco2e|mtco2e)[^.]{0,30}scope 3`, UnitHint: "tCO2e", Name: "scope3_emissions"},
			},
		},
		{
			ID:          "GRI-303-3",
			Framework:   FrameworkGRI,
			Category:    "Environmental",
			Subcategory: "Water and Effluents",
			Description: "Water withdrawal",
			Keywords: []string{
				"water withdrawal", "water consumption", "water sources", "freshwater",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(m3|m³|megaliters|megalitres)[^.]{0,30}water`, UnitHint: "m3", Name: "water_withdrawal"},
				{Expr: `(\d+(?:[.,]\d+)*)\s*(liters|litres)[^.]{0,20}water`, Name: "water_withdrawal_liters"},
			},
		},
		{
			ID:          "GRI-306-3",
			Framework:   FrameworkGRI,
			Category:    "Environmental",
			Subcategory: "Waste",
			Description: "Waste generated",
			Keywords: []string{
				"waste generated", "hazardous waste", "waste diverted", "landfill",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(tonnes|tons|kg)[^.]{0,20}waste`, Name: "waste_generated"},
			},
		},
		{
			ID:          "GRI-401-1",
			Framework:   FrameworkGRI,
			Category:    "Social",
			Subcategory: "Employment",
			Description: "New employee hires and employee turnover",
			Keywords: []string{
				"employee turnover", "new hires", "attrition", "retention",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)[^.]{0,20}turnover`, Name: "turnover_rate"},
				{Expr: `(\d+(?:[.,]\d+)*)\s*new hires`, UnitHint: "count", Name: "new_hires"},
			},
		},
		{
			ID:          "GRI-405-1",
			Framework:   FrameworkGRI,
			Category:    "Social",
			Subcategory: "Diversity and Equal Opportunity",
			Description: "Diversity of governance bodies and employees",
			Keywords: []string{
				"gender diversity", "board diversity", "board composition", "ethnic diversity",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)\s*women[^.]{0,20}board`, Name: "women_on_board"},
				{Expr: `board diversity[^.]{0,40}?(\d+(?:[.,]\d+)?)\s*(%)`, Name: "board_diversity"},
			},
		},
		{
			ID:          "GRI-403-9",
			Framework:   FrameworkGRI,
			Category:    "Social",
			Subcategory: "Occupational Health and Safety",
			Description: "Work-related injuries",
			Keywords: []string{
				"work injuries", "accident rate", "safety incidents", "occupational health",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)?)\s*injury rate`, UnitHint: "count", Name: "injury_rate"},
				{Expr: `(\d+(?:[.,]\d+)*)\s*safety incidents`, UnitHint: "count", Name: "safety_incidents"},
			},
		},
		{
			ID:          "GRI-205-3",
			Framework:   FrameworkGRI,
			Category:    "Governance",
			Subcategory: "Anti-corruption",
			Description: "Confirmed incidents of corruption and actions taken",
			Keywords: []string{
				"corruption incidents", "anti-corruption", "bribery", "ethics violations",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*corruption incidents`, UnitHint: "count", Name: "corruption_incidents"},
				{Expr: `(\d+(?:[.,]\d+)*)\s*ethics violations`, UnitHint: "count", Name: "ethics_violations"},
			},
		},
	}
}
