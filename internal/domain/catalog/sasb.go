package catalog

// Sustainability Accounting Standards Board. SASB disclosures are
// industry-specific and treated as optional here; the industry severity
// table upgrades the ones that matter for a given sector.
func sasbRequirements() []Requirement {
	return []Requirement{
		{
			ID:          "SASB-TC-220a.1",
			Framework:   FrameworkSASB,
			Category:    "Social",
			Subcategory: "Data Privacy",
			Description: "Policies and practices relating to behavioral advertising and user privacy",
			Keywords: []string{
				"behavioral advertising", "data privacy", "user tracking", "advertising policies",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*privacy complaints`, UnitHint: "count", Name: "privacy_complaints"},
			},
		},
		{
			ID:          "SASB-TC-220a.2",
			Framework:   FrameworkSASB,
			Category:    "Social",
			Subcategory: "Data Privacy",
			Description: "Number of users whose information is used for secondary purposes",
			Keywords: []string{
				"secondary use", "data sharing", "user data", "information use",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)?)\s*(million|billion)\s*users`, UnitHint: "count", Name: "users_affected"},
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)[^.]{0,20}data shared`, Name: "data_shared"},
			},
		},
		{
			ID:          "SASB-TC-130a.1",
			Framework:   FrameworkSASB,
			Category:    "Environmental",
			Subcategory: "Energy Management",
			Description: "Total energy consumed and percentage from grid and renewables",
			Keywords: []string{
				"energy management", "data center energy", "grid electricity", "renewable share",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(mwh|gwh|gj)[^.]{0,30}consumed`, Name: "energy_consumed"},
				{Expr: `(\d+(?:[.,]\d+)?)\s*(%)[^.]{0,20}grid`, Name: "grid_share"},
			},
		},
		{
			ID:          "SASB-EM-EP-110a.1",
			Framework:   FrameworkSASB,
			Category:    "Environmental",
			Subcategory: "Air Quality",
			Description: "Air emissions of criteria pollutants",
			Keywords: []string{
				"air emissions", "nox", "sox", "particulate matter", "criteria pollutants",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(tonnes|tons)\s*(?:of\s*)?nox`, Name: "nox_emissions"},
				{Expr: `(\d+(?:[.,]\d+)*)\s*(tonnes|tons)\s*(?:of\s*)?sox`, Name: "sox_emissions"},
			},
		},
		{
			ID:          "SASB-EM-EP-140a.1",
			Framework:   FrameworkSASB,
			Category:    "Environmental",
			Subcategory: "Water Management",
			Description: "Water withdrawn and consumed in water-stressed regions",
			Keywords: []string{
				"water management", "water stressed", "produced water", "water recycled",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*(m3|m³|megaliters)[^.]{0,40}water stress`, UnitHint: "m3", Name: "water_in_stressed_regions"},
			},
		},
		{
			ID:          "SASB-FN-CB-410a.1",
			Framework:   FrameworkSASB,
			Category:    "Social",
			Subcategory: "Financial Inclusion",
			Description: "Loans outstanding to underbanked populations",
			Keywords: []string{
				"financial inclusion", "underbanked", "microfinance", "community lending",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)?)\s*(million|billion)[^.]{0,30}loans[^.]{0,30}underbanked`, UnitHint: "USD", Name: "underbanked_loans"},
			},
		},
		{
			ID:          "SASB-HC-BP-240a.1",
			Framework:   FrameworkSASB,
			Category:    "Social",
			Subcategory: "Product Safety",
			Description: "Products listed in safety alerts and recalls",
			Keywords: []string{
				"product safety", "fda alerts", "medical device safety", "drug safety",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*safety alerts`, UnitHint: "count", Name: "safety_alerts"},
				{Expr: `(\d+(?:[.,]\d+)*)\s*product recalls`, UnitHint: "count", Name: "product_recalls"},
			},
		},
		{
			ID:          "SASB-GEN-000.A",
			Framework:   FrameworkSASB,
			Category:    "Governance",
			Subcategory: "Business Model",
			Description: "Description of the nature of business operations",
			Keywords: []string{
				"business model", "operations description", "industry description", "value creation",
			},
		},
		{
			ID:          "SASB-GEN-000.B",
			Framework:   FrameworkSASB,
			Category:    "Governance",
			Subcategory: "Business Environment",
			Description: "How the organization identifies, assesses, and manages sustainability risks",
			Keywords: []string{
				"sustainability risk", "risk management", "materiality assessment", "risk governance",
			},
			MetricPatterns: []MetricPattern{
				{Expr: `(\d+(?:[.,]\d+)*)\s*material topics`, UnitHint: "count", Name: "material_topics"},
				{Expr: `(\d+(?:[.,]\d+)*)\s*risks identified`, UnitHint: "count", Name: "risks_identified"},
			},
		},
	}
}
