package models

import "strings"

// Placeholder labels used when the backend omits an enumerated value
const (
	UnknownLabel = "Unknown"
)

// AnalysisResponse is the payload returned by POST /upload
type AnalysisResponse struct {
	Success         bool              `json:"success"`
	Error           string            `json:"error,omitempty"`
	Analysis        *AnalysisResult   `json:"analysis,omitempty"`
	Comparison      *ComparisonResult `json:"comparison,omitempty"`
	Recommendations *Recommendations  `json:"recommendations,omitempty"`
}

// AnalysisOrEmpty returns the analysis block, or an empty one when the backend sent none
func (r *AnalysisResponse) AnalysisOrEmpty() AnalysisResult {
	if r == nil || r.Analysis == nil {
		return AnalysisResult{}
	}
	return *r.Analysis
}

// AnalysisResult describes the particles detected in one image.
// Types, Counts and ConfidenceScores are aligned index-wise.
type AnalysisResult struct {
	ParticleCount     int           `json:"particle_count"`
	Types             []string      `json:"types"`
	Counts            []int         `json:"counts"`
	ConfidenceScores  []float64     `json:"confidence_scores"`
	AverageConfidence float64       `json:"average_confidence"`
	SizeDistribution  *Ordered[int] `json:"size_distribution,omitempty"`
}

// CountAt returns the count for the i-th type, or 0 when the arrays are misaligned
func (a AnalysisResult) CountAt(i int) int {
	if i < 0 || i >= len(a.Counts) {
		return 0
	}
	return a.Counts[i]
}

// ConfidenceAt returns the confidence for the i-th type, or 0 when out of range
func (a AnalysisResult) ConfidenceAt(i int) float64 {
	if i < 0 || i >= len(a.ConfidenceScores) {
		return 0
	}
	return a.ConfidenceScores[i]
}

// ComparisonResult compares the sample against baseline data
type ComparisonResult struct {
	RiskAssessment     *RiskAssessment         `json:"risk_assessment,omitempty"`
	BaselineComparison *Ordered[BaselineEntry] `json:"baseline_comparison,omitempty"`
	TrendAnalysis      *TrendAnalysis          `json:"trend_analysis,omitempty"`
}

// EnvironmentalRisk returns the risk label, "Unknown" when absent
func (c *ComparisonResult) EnvironmentalRisk() string {
	if c == nil || c.RiskAssessment == nil {
		return UnknownLabel
	}
	if strings.TrimSpace(c.RiskAssessment.EnvironmentalRisk) == "" {
		return UnknownLabel
	}
	return c.RiskAssessment.EnvironmentalRisk
}

// RiskAssessment holds the qualitative risk labels
type RiskAssessment struct {
	EnvironmentalRisk string   `json:"environmental_risk"`
	HealthRisk        string   `json:"health_risk,omitempty"`
	RiskFactors       []string `json:"risk_factors,omitempty"`
}

// BaselineEntry compares one detected type to the reference dataset
type BaselineEntry struct {
	SamplePercentage    float64 `json:"sample_percentage"`
	ConcentrationStatus string  `json:"concentration_status"`
	TypicalRange        string  `json:"typical_range,omitempty"`
}

// Status returns the concentration status, "Unknown" when absent
func (b BaselineEntry) Status() string {
	if strings.TrimSpace(b.ConcentrationStatus) == "" {
		return UnknownLabel
	}
	return b.ConcentrationStatus
}

// TrendAnalysis summarises the type mix of the sample
type TrendAnalysis struct {
	DominantType      string  `json:"dominant_type,omitempty"`
	DiversityIndex    float64 `json:"diversity_index"`
	OverallAssessment string  `json:"overall_assessment,omitempty"`
}

// Recommendations lists prevention measures for the detected types
type Recommendations struct {
	PriorityLevel       string          `json:"priority_level"`
	PreventionSolutions []Solution      `json:"prevention_solutions"`
	ImplementationPlan  *Ordered[Phase] `json:"implementation_plan,omitempty"`
	CostEstimate        *CostEstimate   `json:"cost_estimate,omitempty"`
}

// Solution is a single recommended measure
type Solution struct {
	Solution       string `json:"solution"`
	Description    string `json:"description"`
	Effectiveness  string `json:"effectiveness"`
	Cost           string `json:"cost"`
	Implementation string `json:"implementation"`
}

// Phase groups the actions of one implementation phase
type Phase struct {
	Name    string     `json:"name"`
	Actions []Solution `json:"actions"`
}

// CostEstimate is the backend's rough cost bracket
type CostEstimate struct {
	TotalEstimatedCost string `json:"total_estimated_cost"`
}
