package companies

import "time"

// ScorePoint is one historical score observation for a company.
type ScorePoint struct {
	Overall   float64   `json:"overall"`
	Timestamp time.Time `json:"timestamp"`
}

// Profile tracks a company across analyses. Companies are shared read
// across all users.
type Profile struct {
	Name             string       `json:"name"`
	IndustrySector   string       `json:"industry_sector,omitempty"`
	LatestAnalysisID string       `json:"latest_analysis_id,omitempty"`
	LatestOverall    float64      `json:"latest_overall"`
	History          []ScorePoint `json:"history,omitempty"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
