package view

import (
	"time"

	"go-microplastic-inspector/pkg/models"
)

// Report is the complete result view for one analysis
type Report struct {
	Summary         Summary              `json:"summary"`
	TypeChart       TypeChart            `json:"type_chart"`
	SizeChart       SizeChart            `json:"size_chart"`
	Details         Details              `json:"details"`
	Recommendations RecommendationsPanel `json:"recommendations"`
}

// BuildReport runs the five section mappings over one response.
// Missing optional blocks yield placeholders, never errors.
func BuildReport(resp *models.AnalysisResponse, profile FormattingProfile) Report {
	analysis := resp.AnalysisOrEmpty()

	var comparison *models.ComparisonResult
	var rec *models.Recommendations
	if resp != nil {
		comparison = resp.Comparison
		rec = resp.Recommendations
	}

	return Report{
		Summary:         BuildSummary(analysis, comparison),
		TypeChart:       BuildTypeChart(analysis, profile),
		SizeChart:       BuildSizeChart(analysis, profile),
		Details:         BuildDetails(analysis, comparison),
		Recommendations: BuildRecommendations(rec),
	}
}

// AlertLevel is the colour of a transient alert
type AlertLevel string

const (
	AlertInfo    AlertLevel = "info"
	AlertWarning AlertLevel = "warning"
	AlertDanger  AlertLevel = "danger"
)

// Alert is a user-facing message that dismisses itself
type Alert struct {
	Level        AlertLevel    `json:"level"`
	Message      string        `json:"message"`
	DismissAfter time.Duration `json:"dismiss_after"`
}

// DismissSeconds is DismissAfter in whole seconds, for templates
func (a Alert) DismissSeconds() int {
	return int(a.DismissAfter / time.Second)
}
