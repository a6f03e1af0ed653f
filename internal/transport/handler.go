package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go-microplastic-inspector/internal/config"
	apperrors "go-microplastic-inspector/internal/errors"
	"go-microplastic-inspector/internal/logger"
	"go-microplastic-inspector/internal/observer"
	"go-microplastic-inspector/internal/render"
	"go-microplastic-inspector/internal/repository"
	"go-microplastic-inspector/internal/service"
	"go-microplastic-inspector/internal/upload"
	"go-microplastic-inspector/internal/view"
	"go-microplastic-inspector/pkg/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const pageTitle = "Microplastic Analyzer"

// multipart framing allowance on top of the image itself
const formOverhead = 1 << 20

type handler struct {
	svc     service.AnalysisService
	html    *render.HTMLRenderer
	metrics *observer.MetricsObserver
	cfg     *config.Config
}

func NewHandler(svc service.AnalysisService, html *render.HTMLRenderer, metrics *observer.MetricsObserver, cfg *config.Config) http.Handler {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxUploadSize+formOverhead),
		errorHandler(),
	)

	h := &handler{svc: svc, html: html, metrics: metrics, cfg: cfg}

	r.GET("/health", healthCheck)
	r.GET("/api/status", h.status)
	r.GET("/", h.index)
	r.POST("/upload", h.upload)
	r.GET("/history", h.history)
	r.GET("/history/:id", h.historyDetail)

	return r
}

func (h *handler) index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	page := h.basePage(c)
	page.History = h.svc.History(ctx)
	h.renderPage(c, http.StatusOK, page)
}

func (h *handler) upload(c *gin.Context) {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.AnalysisTimeout())
	defer cancel()

	logger.WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"ip":         c.ClientIP(),
	}).Info("Processing upload request")

	candidate, err := h.candidateFromForm(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	sel, err := h.svc.Select(ctx, candidate)
	if err != nil {
		h.fail(c, err)
		return
	}

	outcome, err := h.svc.Analyze(ctx, sel, h.width(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	logger.WithFields(logrus.Fields{
		"selection_id":       sel.ID,
		"filename":           candidate.Name,
		"particle_count":     outcome.Report.Summary.ParticleCount,
		"processing_time_ms": time.Since(startTime).Milliseconds(),
	}).Info("Upload analyzed successfully")

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"report":  outcome.Report,
			"history": outcome.History,
		})
		return
	}

	page := h.basePage(c)
	page.Report = &outcome.Report
	page.History = outcome.History
	h.renderPage(c, http.StatusOK, page)
}

// candidateFromForm reads the "file" part the way a browser reports it:
// declared type from the part header, size from the part length.
func (h *handler) candidateFromForm(c *gin.Context) (models.Candidate, error) {
	fh, err := c.FormFile(repository.UploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return models.Candidate{}, apperrors.NewValidationError(apperrors.CodeTooLarge,
				upload.TooLargeMessage(h.cfg.MaxUploadSize), err)
		}
		return models.Candidate{}, apperrors.NewValidationError(apperrors.CodeNoSelection, upload.MsgNoSelection, err)
	}

	f, err := fh.Open()
	if err != nil {
		return models.Candidate{}, apperrors.NewInternalError("Failed to read upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.cfg.MaxUploadSize+1))
	if err != nil {
		return models.Candidate{}, apperrors.NewInternalError("Failed to read upload", err)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimetype.Detect(data).String()
	}

	return models.Candidate{
		Name:     fh.Filename,
		MIMEType: mimeType,
		Size:     fh.Size,
		Data:     data,
	}, nil
}

func (h *handler) history(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	v := h.svc.History(ctx)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, v)
		return
	}
	page := h.basePage(c)
	page.History = v
	h.renderPage(c, http.StatusOK, page)
}

// historyDetail is derived from the history already shown; nothing is fetched
func (h *handler) historyDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.fail(c, apperrors.NewNotFoundError(service.MsgDetailsError, err))
		return
	}

	detail, err := h.svc.HistoryDetail(id)
	if err != nil {
		h.fail(c, err)
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, detail)
		return
	}
	page := h.basePage(c)
	page.History = h.svc.CurrentHistory()
	page.Detail = &detail
	h.renderPage(c, http.StatusOK, page)
}

func (h *handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "running",
		"backend_url": h.cfg.BackendURL,
		"max_upload":  h.cfg.MaxUploadSize,
		"metrics":     h.metrics.GetMetrics(),
	})
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// fail reports err as an alert on the page, or as JSON for API clients
func (h *handler) fail(c *gin.Context, err error) {
	alert := h.svc.AlertFor(err)
	code := apperrors.GetStatusCode(err)

	if wantsJSON(c) {
		respondError(c, code, alert.Message, err)
		return
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"ip":          c.ClientIP(),
	}).Warn("Request failed")

	page := h.basePage(c)
	page.Alert = &alert
	page.History = h.svc.CurrentHistory()
	h.renderPage(c, code, page)
}

func (h *handler) basePage(c *gin.Context) render.Page {
	return render.Page{
		Title:          pageTitle,
		MaxUploadLabel: fmt.Sprintf("%dMB", h.cfg.MaxUploadSize/(1024*1024)),
		Width:          h.width(c),
		History:        view.BuildHistory(nil, nil),
	}
}

func (h *handler) renderPage(c *gin.Context, code int, page render.Page) {
	c.Status(code)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.html.Render(c.Writer, page); err != nil {
		logger.WithError(err).Error("Failed to render page")
		_ = c.Error(err)
	}
}

// width is the viewport width the client reported, or the configured default
func (h *handler) width(c *gin.Context) int {
	for _, raw := range []string{c.PostForm("width"), c.Query("width")} {
		if w, err := strconv.Atoi(raw); err == nil && w > 0 {
			return w
		}
	}
	return h.cfg.ViewportWidth
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Request handled")
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
	})
}
