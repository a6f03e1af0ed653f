package view

import "go-microplastic-inspector/pkg/models"

// Chart titles and placeholders
const (
	TypeChartTitle = "Microplastic Types Distribution"
	SizeChartTitle = "Particle Size Distribution"

	NoTypesPlaceholder    = "No microplastics detected"
	NoSizeDataPlaceholder = "No size data available"

	SizeAxisLabel  = "Size Category"
	CountAxisLabel = "Number of Particles"
)

// TypePalette colours pie slices, cycled when there are more types than colours
var TypePalette = []string{
	"#3498db", "#e74c3c", "#2ecc71", "#f39c12",
	"#9b59b6", "#1abc9c", "#34495e", "#e67e22",
}

// SizePalette colours size bars by position: red, amber, green
var SizePalette = []string{"#e74c3c", "#f39c12", "#2ecc71"}

// SizeFallbackColor colours bars beyond the third
const SizeFallbackColor = "#95a5a6"

// Slice is one segment of the type distribution chart
type Slice struct {
	Label     string  `json:"label"`
	FullLabel string  `json:"full_label"`
	Value     int     `json:"value"`
	Percent   float64 `json:"percent"`
	Color     string  `json:"color"`
}

// TypeChart is the view model of the type distribution pie.
// A non-empty Placeholder means there is nothing to draw.
type TypeChart struct {
	Title       string            `json:"title"`
	Placeholder string            `json:"placeholder,omitempty"`
	Slices      []Slice           `json:"slices,omitempty"`
	Profile     FormattingProfile `json:"-"`
}

// Drawable reports whether a chart object should be created
func (c TypeChart) Drawable() bool {
	return c.Placeholder == "" && len(c.Slices) > 0
}

// BuildTypeChart maps types and counts to pie slices
func BuildTypeChart(analysis models.AnalysisResult, profile FormattingProfile) TypeChart {
	chart := TypeChart{Title: TypeChartTitle, Profile: profile}
	if len(analysis.Types) == 0 {
		chart.Placeholder = NoTypesPlaceholder
		return chart
	}

	total := 0
	for i := range analysis.Types {
		if c := analysis.CountAt(i); c > 0 {
			total += c
		}
	}
	if total == 0 {
		chart.Placeholder = NoTypesPlaceholder
		return chart
	}

	chart.Slices = make([]Slice, 0, len(analysis.Types))
	for i, name := range analysis.Types {
		count := analysis.CountAt(i)
		if count < 0 {
			count = 0
		}
		chart.Slices = append(chart.Slices, Slice{
			Label:     TruncateLabel(name, profile.MaxLabelLength),
			FullLabel: name,
			Value:     count,
			Percent:   float64(count) * 100 / float64(total),
			Color:     TypePalette[i%len(TypePalette)],
		})
	}
	return chart
}

// Bar is one column of the size distribution chart
type Bar struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// SizeChart is the view model of the size distribution bar chart
type SizeChart struct {
	Title       string            `json:"title"`
	Placeholder string            `json:"placeholder,omitempty"`
	XAxisLabel  string            `json:"x_axis_label"`
	YAxisLabel  string            `json:"y_axis_label"`
	Bars        []Bar             `json:"bars,omitempty"`
	Profile     FormattingProfile `json:"-"`
}

// Drawable reports whether a chart object should be created
func (c SizeChart) Drawable() bool {
	return c.Placeholder == "" && len(c.Bars) > 0
}

// BuildSizeChart maps the size distribution to bars in document order
func BuildSizeChart(analysis models.AnalysisResult, profile FormattingProfile) SizeChart {
	chart := SizeChart{
		Title:      SizeChartTitle,
		XAxisLabel: SizeAxisLabel,
		YAxisLabel: CountAxisLabel,
		Profile:    profile,
	}

	entries := analysis.SizeDistribution.Entries()
	if len(entries) == 0 {
		chart.Placeholder = NoSizeDataPlaceholder
		return chart
	}

	chart.Bars = make([]Bar, 0, len(entries))
	for i, e := range entries {
		color := SizeFallbackColor
		if i < len(SizePalette) {
			color = SizePalette[i]
		}
		chart.Bars = append(chart.Bars, Bar{Label: e.Key, Value: e.Value, Color: color})
	}
	return chart
}
