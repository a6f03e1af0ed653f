package container

import (
	"fmt"
	"net/http"

	"go-microplastic-inspector/internal/config"
	"go-microplastic-inspector/internal/factory"
	"go-microplastic-inspector/internal/logger"
	"go-microplastic-inspector/internal/observer"
	"go-microplastic-inspector/internal/render"
	"go-microplastic-inspector/internal/repository"
	"go-microplastic-inspector/internal/service"
	"go-microplastic-inspector/internal/transport"
	"go-microplastic-inspector/internal/upload"
	"go-microplastic-inspector/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config     *config.Config
	resolver   *factory.SourceResolver
	repository repository.AnalysisRepository
	publisher  *observer.EventPublisher
	metrics    *observer.MetricsObserver
	controller *upload.Controller
	service    service.AnalysisService
	html       *render.HTMLRenderer
	handler    http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	resolver := factory.NewSourceResolver(factory.NewStorageFactory(cfg), validation.NewURLValidator())
	repo := repository.NewHTTPAnalysisRepository(cfg.BackendURL, cfg.RequestTimeout)

	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	controller := upload.NewController(repo, publisher, cfg.MaxUploadSize)
	svc := service.NewAnalysisService(controller, service.Options{
		ViewportWidth: cfg.ViewportWidth,
		AlertDuration: cfg.AlertDuration,
	})

	// SVG keeps the embedded charts sharp at any page width
	html := render.NewHTMLRenderer(render.NewGoChartDrawer(render.FormatSVG), render.FormatSVG)

	return &Container{
		config:     cfg,
		resolver:   resolver,
		repository: repo,
		publisher:  publisher,
		metrics:    metrics,
		controller: controller,
		service:    svc,
		html:       html,
		handler:    transport.NewHandler(svc, html, metrics, cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the analysis service shared by both front ends
func (c *Container) Service() service.AnalysisService {
	return c.service
}

// Resolver opens image references given on the command line
func (c *Container) Resolver() *factory.SourceResolver {
	return c.resolver
}

func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}
