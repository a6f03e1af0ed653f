// Package render turns view models into bytes: chart images, terminal text
// and HTML pages.
package render

import (
	"fmt"
	"io"
	"strings"

	"go-microplastic-inspector/internal/view"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is the image encoding of a drawn chart
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" in any case
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q (want png or svg)", s)
	}
}

// Ext is the file extension for the format
func (f Format) Ext() string {
	return "." + string(f)
}

// ChartDrawer draws one chart per call
type ChartDrawer interface {
	DrawPie(w io.Writer, c view.TypeChart) error
	DrawBars(w io.Writer, c view.SizeChart) error
}

// DrawTypeChart draws c unless it carries a placeholder; the bool reports
// whether a chart was drawn.
func DrawTypeChart(d ChartDrawer, w io.Writer, c view.TypeChart) (bool, error) {
	if !c.Drawable() {
		return false, nil
	}
	return true, d.DrawPie(w, c)
}

// DrawSizeChart draws c unless it carries a placeholder
func DrawSizeChart(d ChartDrawer, w io.Writer, c view.SizeChart) (bool, error) {
	if !c.Drawable() {
		return false, nil
	}
	return true, d.DrawBars(w, c)
}

// GoChartDrawer draws with go-chart
type GoChartDrawer struct {
	format Format
}

func NewGoChartDrawer(format Format) *GoChartDrawer {
	return &GoChartDrawer{format: format}
}

func (d *GoChartDrawer) provider() chart.RendererProvider {
	if d.format == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

func (d *GoChartDrawer) DrawPie(w io.Writer, c view.TypeChart) error {
	values := make([]chart.Value, 0, len(c.Slices))
	for _, s := range c.Slices {
		// zero slices have no angle and would break normalisation
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: float64(s.Value),
			Label: s.Label,
			Style: chart.Style{
				FillColor:   hexColor(s.Color),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
				FontSize:    c.Profile.LegendFontSize,
				FontColor:   drawing.ColorWhite,
			},
		})
	}
	if len(values) == 0 {
		return fmt.Errorf("type chart has no positive values")
	}

	pie := chart.PieChart{
		Title:      c.Title,
		TitleStyle: chart.Style{FontSize: c.Profile.TitleFontSize},
		Width:      c.Profile.ChartWidth,
		Height:     c.Profile.ChartWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Values:     values,
	}
	return pie.Render(d.provider(), w)
}

func (d *GoChartDrawer) DrawBars(w io.Writer, c view.SizeChart) error {
	bars := make([]chart.Value, 0, len(c.Bars))
	maxValue := 0
	for _, b := range c.Bars {
		if b.Value > maxValue {
			maxValue = b.Value
		}
		bars = append(bars, chart.Value{
			Value: float64(b.Value),
			Label: b.Label,
			Style: chart.Style{
				FillColor:   hexColor(b.Color),
				StrokeColor: hexColor(b.Color),
				StrokeWidth: 1,
			},
		})
	}
	if maxValue == 0 {
		maxValue = 1
	}

	width := c.Profile.ChartWidth
	barWidth := width / (len(bars)*3 + 1)
	if barWidth < 12 {
		barWidth = 12
	}
	if barWidth > 80 {
		barWidth = 80
	}

	bc := chart.BarChart{
		Title:      c.Title,
		TitleStyle: chart.Style{FontSize: c.Profile.TitleFontSize},
		Width:      width,
		Height:     c.Profile.ChartHeight,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		XAxis:      chart.Style{FontSize: c.Profile.AxisFontSize},
		YAxis: chart.YAxis{
			Name:  c.YAxisLabel,
			Style: chart.Style{FontSize: c.Profile.AxisFontSize},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxValue)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}
	return bc.Render(d.provider(), w)
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
