// Package view maps analysis payloads to display-ready view models.
// Nothing in this package performs I/O; renderers in internal/render consume its output.
package view

import "unicode/utf8"

// Viewport breakpoints, in pixels
const (
	BreakpointExtraSmall = 576
	BreakpointSmall      = 768
	BreakpointLarge      = 1200
)

const ellipsis = "..."

// FormattingProfile holds every width-dependent formatting decision
type FormattingProfile struct {
	Width          int
	MaxLabelLength int

	TitleFontSize  float64
	FontSize       float64
	LegendFontSize float64
	AxisFontSize   float64

	// Horizontal legends sit under the chart on narrow screens
	LegendHorizontal bool

	ChartWidth  int
	ChartHeight int
}

// ProfileForWidth derives the formatting profile for a viewport width
func ProfileForWidth(width int) FormattingProfile {
	p := FormattingProfile{
		Width:          width,
		MaxLabelLength: 20,
		TitleFontSize:  14,
		FontSize:       11,
		LegendFontSize: 10,
		AxisFontSize:   12,
	}

	switch {
	case width < BreakpointExtraSmall:
		p.MaxLabelLength = 8
		p.TitleFontSize, p.FontSize, p.LegendFontSize, p.AxisFontSize = 12, 9, 8, 10
		p.LegendHorizontal = true
	case width < BreakpointSmall:
		p.MaxLabelLength = 12
		p.TitleFontSize, p.FontSize, p.LegendFontSize, p.AxisFontSize = 13, 10, 9, 11
		p.LegendHorizontal = true
	case width < BreakpointLarge:
		p.MaxLabelLength = 16
	}

	p.ChartWidth = chartWidthFor(width)
	p.ChartHeight = p.ChartWidth * 3 / 4
	return p
}

// Two charts share a row from the small breakpoint up
func chartWidthFor(width int) int {
	w := width
	if width >= BreakpointSmall {
		w = width / 2
	}
	if w < 240 {
		w = 240
	}
	if w > 640 {
		w = 640
	}
	return w
}

// TruncateLabel shortens label to at most max runes, ending in "..." when cut
func TruncateLabel(label string, max int) string {
	if max <= 0 || utf8.RuneCountInString(label) <= max {
		return label
	}
	keep := max - len(ellipsis)
	if keep <= 0 {
		return ellipsis[:max]
	}
	runes := []rune(label)
	return string(runes[:keep]) + ellipsis
}
