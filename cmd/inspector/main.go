// Command inspector uploads water-sample images for microplastic analysis
// and renders the results in the terminal or as a web page.
//
// Usage:
//
//	inspector analyze sample.jpg
//	inspector analyze --format json --charts-dir out https://example.com/sample.png
//	inspector history
//	inspector history show 42
//	inspector serve
package main

import (
	"fmt"
	"os"

	"go-microplastic-inspector/internal/config"
	"go-microplastic-inspector/internal/container"
	"go-microplastic-inspector/internal/logger"
	"go-microplastic-inspector/internal/render"
	"go-microplastic-inspector/internal/service"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "inspector",
		Usage:   "Microplastic image analysis client",
		Version: version,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend-url",
				Usage:   "Analysis backend base URL",
				EnvVars: []string{"BACKEND_URL"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.IntFlag{
				Name:    "width",
				Usage:   "Viewport width used to format labels (default: terminal width)",
				EnvVars: []string{"VIEWPORT_WIDTH"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Backend request timeout",
				EnvVars: []string{"REQUEST_TIMEOUT"},
			},
		},

		Commands: []*cli.Command{
			analyzeCommand(),
			historyCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the environment configuration, applies global flags on top
// and builds the dependency graph.
func setup(c *cli.Context) (*container.Container, error) {
	logger.SetLevel(c.String("log-level"))

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.IsSet("backend-url") {
		cfg.BackendURL = c.String("backend-url")
	}
	if c.IsSet("width") {
		cfg.ViewportWidth = c.Int("width")
	}
	if c.IsSet("timeout") {
		cfg.RequestTimeout = c.Duration("timeout")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return container.NewContainer(cfg)
}

// viewportWidth prefers an explicit width, then the terminal, then the config
func viewportWidth(c *cli.Context, cfg *config.Config) int {
	if c.IsSet("width") {
		return cfg.ViewportWidth
	}
	return terminalWidth(cfg.ViewportWidth)
}

// fail prints err as an alert line and exits non-zero
func fail(c *cli.Context, svc service.AnalysisService, err error) error {
	_ = render.NewTextRenderer(c.App.ErrWriter).Alert(svc.AlertFor(err))
	return cli.Exit("", 1)
}
