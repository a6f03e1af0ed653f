package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go-microplastic-inspector/internal/view"
)

const barGlyph = "█"

// TextRenderer writes view models as plain terminal text
type TextRenderer struct {
	w        io.Writer
	barWidth int
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w, barWidth: 30}
}

// Report writes the five result sections in display order
func (r *TextRenderer) Report(rep view.Report) error {
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)

	s := rep.Summary
	fmt.Fprintln(tw, "Analysis Summary")
	fmt.Fprintf(tw, "  Total particles:\t%d\n", s.ParticleCount)
	fmt.Fprintf(tw, "  Types found:\t%d\n", s.TypesFound)
	fmt.Fprintf(tw, "  Environmental risk:\t%s [%s]\n", s.RiskLabel, s.RiskColor)
	fmt.Fprintf(tw, "  Average confidence:\t%s\n", s.Confidence)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, rep.TypeChart.Title)
	if rep.TypeChart.Placeholder != "" {
		fmt.Fprintf(tw, "  %s\n", rep.TypeChart.Placeholder)
	}
	for _, sl := range rep.TypeChart.Slices {
		fmt.Fprintf(tw, "  %s\t%d\t%.1f%%\n", sl.Label, sl.Value, sl.Percent)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, rep.SizeChart.Title)
	if rep.SizeChart.Placeholder != "" {
		fmt.Fprintf(tw, "  %s\n", rep.SizeChart.Placeholder)
	}
	maxBar := 0
	for _, b := range rep.SizeChart.Bars {
		if b.Value > maxBar {
			maxBar = b.Value
		}
	}
	for _, b := range rep.SizeChart.Bars {
		fmt.Fprintf(tw, "  %s\t%d\t%s\n", b.Label, b.Value, r.bar(b.Value, maxBar))
	}
	fmt.Fprintln(tw)

	r.details(tw, rep.Details)
	r.recommendations(tw, rep.Recommendations)

	return tw.Flush()
}

func (r *TextRenderer) bar(value, max int) string {
	if max <= 0 || value <= 0 {
		return ""
	}
	n := value * r.barWidth / max
	if n == 0 {
		n = 1
	}
	return strings.Repeat(barGlyph, n)
}

func (r *TextRenderer) details(w io.Writer, d view.Details) {
	fmt.Fprintln(w, "Detected Types")
	if d.TypesPlaceholder != "" {
		fmt.Fprintf(w, "  %s\n", d.TypesPlaceholder)
	}
	for _, t := range d.Types {
		fmt.Fprintf(w, "  %s\t%s\tconfidence %s\n", t.Name, t.CountLabel, t.Confidence)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Baseline Comparison")
	if d.BaselinePlaceholder != "" {
		fmt.Fprintf(w, "  %s\n", d.BaselinePlaceholder)
	}
	for _, b := range d.Baseline {
		line := fmt.Sprintf("  %s\t%s of sample\t%s [%s]", b.Type, b.SamplePercentage, b.Status, b.StatusColor)
		if b.TypicalRange != "" {
			line += "\ttypical " + b.TypicalRange
		}
		fmt.Fprintln(w, line)
	}
	if d.Trend != nil {
		fmt.Fprintf(w, "  Dominant type:\t%s\n", d.Trend.DominantType)
		fmt.Fprintf(w, "  Diversity index:\t%s\n", d.Trend.DiversityIndex)
		if d.Trend.OverallAssessment != "" {
			fmt.Fprintf(w, "  Assessment:\t%s\n", d.Trend.OverallAssessment)
		}
	}
	fmt.Fprintln(w)
}

func (r *TextRenderer) recommendations(w io.Writer, p view.RecommendationsPanel) {
	fmt.Fprintln(w, "Recommendations")
	if p.Placeholder != "" {
		fmt.Fprintf(w, "  %s\n", p.Placeholder)
		return
	}
	fmt.Fprintf(w, "  Priority:\t%s [%s]\n", p.PriorityLabel, p.PriorityColor)
	for i, s := range p.Solutions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s.Title)
		if s.Description != "" {
			fmt.Fprintf(w, "     %s\n", s.Description)
		}
		fmt.Fprintf(w, "     effectiveness %s, cost %s, implementation %s\n", s.Effectiveness, s.Cost, s.Implementation)
	}
	if p.HasPlan {
		fmt.Fprintln(w, "  Implementation plan")
		for _, ph := range p.Phases {
			fmt.Fprintf(w, "    %s\n", ph.Name)
			for _, a := range ph.Actions {
				fmt.Fprintf(w, "      - %s\n", a)
			}
		}
	}
	if p.EstimatedCost != "" {
		fmt.Fprintf(w, "  Estimated cost:\t%s\n", p.EstimatedCost)
	}
}

// History writes the history list, or its placeholder
func (r *TextRenderer) History(h view.HistoryView) error {
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Analysis History")
	if h.Placeholder != "" {
		fmt.Fprintf(tw, "  %s\n", h.Placeholder)
		return tw.Flush()
	}
	fmt.Fprintln(tw, "  ID\tFILE\tDATE\tTIME\tPARTICLES\tTYPES")
	for _, item := range h.Items {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.Filename, item.Date, item.Time, item.ParticleBadge, item.TypeCount)
		fmt.Fprintf(tw, "  \t%s\t\t\t\t\n", item.TypesLine)
	}
	return tw.Flush()
}

// Detail writes one history detail overlay
func (r *TextRenderer) Detail(d view.HistoryDetail) error {
	_, err := fmt.Fprintf(r.w, "Analysis Details\n  Filename: %s\n  Date: %s\n  Particles Found: %s\n  %s\n",
		d.Filename, d.Date, d.ParticlesFound, d.Note)
	return err
}

// Alert writes a one-line alert
func (r *TextRenderer) Alert(a view.Alert) error {
	_, err := fmt.Fprintf(r.w, "[%s] %s\n", strings.ToUpper(string(a.Level)), a.Message)
	return err
}
