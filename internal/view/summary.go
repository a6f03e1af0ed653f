package view

import (
	"fmt"
	"math"

	"go-microplastic-inspector/pkg/models"
)

// Summary is the row of headline figures above the charts
type Summary struct {
	ParticleCount int    `json:"particle_count"`
	TypesFound    int    `json:"types_found"`
	RiskLabel     string `json:"risk_label"`
	RiskColor     Color  `json:"risk_color"`
	Confidence    string `json:"confidence"`
}

// BuildSummary derives the headline figures
func BuildSummary(analysis models.AnalysisResult, comparison *models.ComparisonResult) Summary {
	risk := comparison.EnvironmentalRisk()
	return Summary{
		ParticleCount: analysis.ParticleCount,
		TypesFound:    len(analysis.Types),
		RiskLabel:     risk,
		RiskColor:     RiskColor(risk),
		Confidence:    FormatPercent(analysis.AverageConfidence),
	}
}

// FormatPercent renders a [0,1] ratio as a whole percentage
func FormatPercent(ratio float64) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 0
	}
	return fmt.Sprintf("%d%%", int(math.Round(ratio*100)))
}
