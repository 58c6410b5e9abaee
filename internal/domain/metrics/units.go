package metrics

import "strings"

// Canonical units.
const (
	UnitTCO2e   = "tCO2e"
	UnitMWh     = "MWh"
	UnitM3      = "m3"
	UnitPercent = "%"
	UnitUSD     = "USD"
	UnitCount   = "count"
	UnitTons    = "tons"
	UnitYear    = "year"
)

type unitCategory int

const (
	catUnknown unitCategory = iota
	catEmissions
	catEnergy
	catWater
	catPercent
	catMonetary
	catCount
	catWaste
	catYear
)

type unitEntry struct {
	canonical string
	factor    float64
	category  unitCategory
}

// exactUnits are recognized verbatim (confidence 1.0 per the scoring
// rules); synonymUnits via the synonym table (confidence 0.8).
var exactUnits = map[string]unitEntry{
	"tco2e":  {UnitTCO2e, 1, catEmissions},
	"ktco2e": {UnitTCO2e, 1e3, catEmissions},
	"mtco2e": {UnitTCO2e, 1e6, catEmissions},

	"mwh": {UnitMWh, 1, catEnergy},
	"gwh": {UnitMWh, 1e3, catEnergy},
	"twh": {UnitMWh, 1e6, catEnergy},
	"kwh": {UnitMWh, 1e-3, catEnergy},
	"gj":  {UnitMWh, 0.2778, catEnergy},
	"tj":  {UnitMWh, 277.78, catEnergy},

	"m3": {UnitM3, 1, catWater},
	"m³": {UnitM3, 1, catWater},

	"%": {UnitPercent, 1, catPercent},

	"usd": {UnitUSD, 1, catMonetary},

	"count": {UnitCount, 1, catCount},
	"year":  {UnitYear, 1, catYear},
}

var synonymUnits = map[string]unitEntry{
	// emissions
	"t co2e":          {UnitTCO2e, 1, catEmissions},
	"tons co2":        {UnitTCO2e, 1, catEmissions},
	"tonnes co2":      {UnitTCO2e, 1, catEmissions},
	"metric tons co2": {UnitTCO2e, 1, catEmissions},
	"t":               {UnitTCO2e, 1, catEmissions},
	"tonnes":          {UnitTons, 1, catWaste},
	"tons":            {UnitTons, 1, catWaste},
	"kg co2e":         {UnitTCO2e, 1e-3, catEmissions},
	"kg co2":          {UnitTCO2e, 1e-3, catEmissions},

	// energy
	"terajoules": {UnitMWh, 277.78, catEnergy},
	"gigajoules": {UnitMWh, 0.2778, catEnergy},

	// water
	"cubic meters": {UnitM3, 1, catWater},
	"million m3":   {UnitM3, 1e6, catWater},
	"liters":       {UnitM3, 1e-3, catWater},
	"litres":       {UnitM3, 1e-3, catWater},
	"gallons":      {UnitM3, 3.785e-3, catWater},
	"megaliters":   {UnitM3, 1e3, catWater},
	"megalitres":   {UnitM3, 1e3, catWater},

	// percentage
	"percent":    {UnitPercent, 1, catPercent},
	"percentage": {UnitPercent, 1, catPercent},

	// monetary magnitudes pass through with a currency annotation, no FX
	"million":  {UnitUSD, 1e6, catMonetary},
	"billion":  {UnitUSD, 1e9, catMonetary},
	"trillion": {UnitUSD, 1e12, catMonetary},
	"eur":      {UnitUSD, 1, catMonetary},
	"gbp":      {UnitUSD, 1, catMonetary},
	"$":        {UnitUSD, 1, catMonetary},

	// counts
	"employees": {UnitCount, 1, catCount},
	"workers":   {UnitCount, 1, catCount},
	"staff":     {UnitCount, 1, catCount},
	"people":    {UnitCount, 1, catCount},
	"incidents": {UnitCount, 1, catCount},
	"hours":     {UnitCount, 1, catCount},

	// waste
	"kg": {UnitTons, 1e-3, catWaste},
}

// resolveUnit maps a raw unit token to its canonical entry and the
// confidence tier of the recognition.
func resolveUnit(raw string) (unitEntry, float64, bool) {
	u := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if u == "" {
		return unitEntry{}, 0, false
	}
	if e, ok := exactUnits[u]; ok {
		return e, 1.0, true
	}
	if e, ok := synonymUnits[u]; ok {
		return e, 0.8, true
	}
	return unitEntry{}, 0, false
}

// currencyCode returns the annotation for monetary units; the value is
// never FX-converted.
func currencyCode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "eur", "€":
		return "EUR"
	case "gbp", "£":
		return "GBP"
	default:
		return "USD"
	}
}
