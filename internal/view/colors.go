package view

import "strings"

// Color is a badge colour class
type Color string

const (
	ColorSuccess   Color = "success"
	ColorWarning   Color = "warning"
	ColorDanger    Color = "danger"
	ColorInfo      Color = "info"
	ColorPrimary   Color = "primary"
	ColorSecondary Color = "secondary"
)

var (
	riskColors = map[string]Color{
		"low":    ColorSuccess,
		"medium": ColorWarning,
		"high":   ColorDanger,
	}
	statusColors = map[string]Color{
		"normal":        ColorSuccess,
		"elevated":      ColorWarning,
		"below average": ColorInfo,
	}
	priorityColors = map[string]Color{
		"very high": ColorDanger,
		"high":      ColorWarning,
		"medium":    ColorInfo,
		"low":       ColorSuccess,
	}
)

func lookupColor(table map[string]Color, label string) Color {
	if c, ok := table[strings.ToLower(label)]; ok {
		return c
	}
	return ColorSecondary
}

// RiskColor maps an environmental risk label to its colour
func RiskColor(risk string) Color {
	return lookupColor(riskColors, risk)
}

// StatusColor maps a concentration status to its colour
func StatusColor(status string) Color {
	return lookupColor(statusColors, status)
}

// PriorityColor maps a recommendation priority to its colour
func PriorityColor(priority string) Color {
	return lookupColor(priorityColors, priority)
}

// EffectivenessClass returns the CSS class for an effectiveness label.
// "Very High" becomes "effectiveness-very-high".
func EffectivenessClass(effectiveness string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(effectiveness)), "-")
	return "effectiveness-" + slug
}
