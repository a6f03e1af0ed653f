package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go-microplastic-inspector/internal/logger"
	"go-microplastic-inspector/internal/render"
	"go-microplastic-inspector/internal/service"
	"go-microplastic-inspector/internal/view"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Upload an image and show the analysis",
		ArgsUsage: "<file | http(s) URL | azblob://container/blob>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format (text, json)",
			},
			&cli.StringFlag{
				Name:  "charts-dir",
				Usage: "Write the type and size charts into this directory",
			},
			&cli.StringFlag{
				Name:  "chart-format",
				Value: string(render.FormatPNG),
				Usage: "Chart image format (png, svg)",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep the report on screen and reformat it when the terminal is resized",
			},
		},
		Action: runAnalyze,
	}
}

func runAnalyze(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("analyze takes exactly one image reference", 2)
	}
	format := c.String("format")
	if format != "text" && format != "json" {
		return cli.Exit(fmt.Sprintf("unknown format %q", format), 2)
	}
	chartFormat, err := render.ParseFormat(c.String("chart-format"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	app, err := setup(c)
	if err != nil {
		return err
	}
	cfg := app.Config()
	svc := app.Service()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reqCtx, cancel := context.WithTimeout(ctx, cfg.AnalysisTimeout())
	defer cancel()

	ref := c.Args().First()
	candidate, err := app.Resolver().Open(reqCtx, ref)
	if err != nil {
		return fail(c, svc, err)
	}

	sel, err := svc.Select(reqCtx, candidate)
	if err != nil {
		return fail(c, svc, err)
	}

	width := viewportWidth(c, cfg)
	outcome, err := svc.Analyze(reqCtx, sel, width)
	if err != nil {
		return fail(c, svc, err)
	}

	logger.WithFields(logrus.Fields{
		"selection_id":   sel.ID,
		"reference":      ref,
		"particle_count": outcome.Report.Summary.ParticleCount,
		"width":          width,
	}).Debug("Analysis rendered")

	if dir := c.String("charts-dir"); dir != "" {
		if err := writeCharts(dir, chartFormat, outcome.Report); err != nil {
			return err
		}
	}

	out := c.App.Writer
	if format == "json" {
		return writeJSON(out, outcome)
	}

	if err := printOutcome(out, outcome.Report, outcome.History); err != nil {
		return err
	}

	if c.Bool("watch") && !c.IsSet("width") {
		watchResize(ctx, cfg.ResizeDebounce, func() {
			rep, ok := svc.Rerender(terminalWidth(cfg.ViewportWidth))
			if !ok {
				return
			}
			fmt.Fprint(out, clearScreen)
			if err := printOutcome(out, rep, svc.CurrentHistory()); err != nil {
				logger.WithError(err).Warn("Failed to redraw report")
			}
		})
	}
	return nil
}

const clearScreen = "\033[H\033[2J"

func printOutcome(w io.Writer, rep view.Report, history view.HistoryView) error {
	r := render.NewTextRenderer(w)
	if err := r.Report(rep); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return r.History(history)
}

func writeJSON(w io.Writer, outcome *service.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		SelectionID string           `json:"selection_id"`
		Filename    string           `json:"filename"`
		Report      view.Report      `json:"report"`
		History     view.HistoryView `json:"history"`
	}{
		SelectionID: outcome.Selection.ID,
		Filename:    outcome.Selection.Candidate.Name,
		Report:      outcome.Report,
		History:     outcome.History,
	})
}

// writeCharts writes only the charts that have data; placeholders produce no file
func writeCharts(dir string, format render.Format, rep view.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create charts directory: %w", err)
	}
	drawer := render.NewGoChartDrawer(format)

	charts := []struct {
		name string
		draw func(io.Writer) (bool, error)
	}{
		{"type-distribution", func(w io.Writer) (bool, error) { return render.DrawTypeChart(drawer, w, rep.TypeChart) }},
		{"size-distribution", func(w io.Writer) (bool, error) { return render.DrawSizeChart(drawer, w, rep.SizeChart) }},
	}

	for _, ch := range charts {
		var buf bytes.Buffer
		drawn, err := ch.draw(&buf)
		if err != nil {
			return fmt.Errorf("failed to draw %s chart: %w", ch.name, err)
		}
		if !drawn {
			continue
		}
		path := filepath.Join(dir, ch.name+format.Ext())
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.WithField("path", path).Info("Chart written")
	}
	return nil
}
