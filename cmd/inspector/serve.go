package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-microplastic-inspector/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the upload page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Usage:   "Listen host",
				EnvVars: []string{"HOST"},
			},
			&cli.StringFlag{
				Name:    "port",
				Usage:   "Listen port",
				EnvVars: []string{"PORT"},
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	app, err := setup(c)
	if err != nil {
		return err
	}
	cfg := app.Config()
	if c.IsSet("host") {
		cfg.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}

	// uploads include the backend round trip and the history reload
	server := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.AnalysisTimeout() + 10*time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"address":     cfg.ServerAddress(),
			"backend_url": cfg.BackendURL,
			"timeout":     cfg.RequestTimeout,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
		return err
	}

	logger.WithField("metrics", app.Metrics().GetMetrics()).Info("Server exited")
	return nil
}
