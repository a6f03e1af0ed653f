package view

import (
	"strconv"

	"go-microplastic-inspector/pkg/models"
)

const NoComparisonPlaceholder = "No comparison data available"

// TypeRow is one detected type in the left column
type TypeRow struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	CountLabel string `json:"count_label"`
	Confidence string `json:"confidence"`
}

// BaselineRow is one baseline comparison in the right column
type BaselineRow struct {
	Type             string `json:"type"`
	SamplePercentage string `json:"sample_percentage"`
	TypicalRange     string `json:"typical_range,omitempty"`
	Status           string `json:"status"`
	StatusColor      Color  `json:"status_color"`
}

// TrendRow summarises the sample's type mix
type TrendRow struct {
	DominantType      string `json:"dominant_type,omitempty"`
	DiversityIndex    string `json:"diversity_index"`
	OverallAssessment string `json:"overall_assessment,omitempty"`
}

// Details is the two-column detailed results panel
type Details struct {
	Types               []TypeRow     `json:"types,omitempty"`
	TypesPlaceholder    string        `json:"types_placeholder,omitempty"`
	Baseline            []BaselineRow `json:"baseline,omitempty"`
	BaselinePlaceholder string        `json:"baseline_placeholder,omitempty"`
	Trend               *TrendRow     `json:"trend,omitempty"`
}

// BuildDetails maps the analysis and comparison blocks to the details panel
func BuildDetails(analysis models.AnalysisResult, comparison *models.ComparisonResult) Details {
	var d Details

	if len(analysis.Types) == 0 {
		d.TypesPlaceholder = NoTypesPlaceholder
	} else {
		d.Types = make([]TypeRow, 0, len(analysis.Types))
		for i, name := range analysis.Types {
			count := analysis.CountAt(i)
			d.Types = append(d.Types, TypeRow{
				Name:       name,
				Count:      count,
				CountLabel: strconv.Itoa(count) + " particles",
				Confidence: FormatPercent(analysis.ConfidenceAt(i)),
			})
		}
	}

	if comparison == nil || comparison.BaselineComparison == nil {
		d.BaselinePlaceholder = NoComparisonPlaceholder
	} else {
		entries := comparison.BaselineComparison.Entries()
		d.Baseline = make([]BaselineRow, 0, len(entries))
		for _, e := range entries {
			status := e.Value.Status()
			d.Baseline = append(d.Baseline, BaselineRow{
				Type:             e.Key,
				SamplePercentage: formatNumber(e.Value.SamplePercentage) + "%",
				TypicalRange:     e.Value.TypicalRange,
				Status:           status,
				StatusColor:      StatusColor(status),
			})
		}
	}

	if comparison != nil && comparison.TrendAnalysis != nil {
		t := comparison.TrendAnalysis
		d.Trend = &TrendRow{
			DominantType:      t.DominantType,
			DiversityIndex:    formatNumber(t.DiversityIndex),
			OverallAssessment: t.OverallAssessment,
		}
	}

	return d
}

// formatNumber prints the shortest representation: 50 stays "50", 58.33 stays "58.33"
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
