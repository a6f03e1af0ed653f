package service

import (
	"context"
	"sync"
	"time"

	apperrors "go-microplastic-inspector/internal/errors"
	"go-microplastic-inspector/internal/logger"
	"go-microplastic-inspector/internal/upload"
	"go-microplastic-inspector/internal/view"
	"go-microplastic-inspector/pkg/models"

	"github.com/sirupsen/logrus"
)

// Alert texts not carried by the errors themselves
const (
	MsgAnalysisFailed = "Analysis failed."
	MsgNetworkError   = "Network error. Please try again."
	MsgDetailsError   = "Error loading analysis details"
)

// Outcome is everything one successful analysis produced
type Outcome struct {
	Selection *upload.Selection
	Response  *models.AnalysisResponse
	Report    view.Report
	History   view.HistoryView
}

// AnalysisService is the one controller both front ends drive
type AnalysisService interface {
	// Select validates a candidate and makes it the pending selection
	Select(ctx context.Context, candidate models.Candidate) (*upload.Selection, error)

	// Analyze submits sel, builds the report for width and then reloads history
	Analyze(ctx context.Context, sel *upload.Selection, width int) (*Outcome, error)

	// AnalyzePending analyzes the pending selection
	AnalyzePending(ctx context.Context, width int) (*Outcome, error)

	// Rerender rebuilds the last report for a new width without refetching
	Rerender(width int) (view.Report, bool)

	// History fetches the history and replaces the held view. It never fails.
	History(ctx context.Context) view.HistoryView

	// CurrentHistory returns the held history view
	CurrentHistory() view.HistoryView

	// HistoryDetail derives the detail overlay from the held history view
	HistoryDetail(id int64) (view.HistoryDetail, error)

	// AlertFor turns an error into the alert shown to the user
	AlertFor(err error) view.Alert
}

// Options tune presentation
type Options struct {
	ViewportWidth int
	AlertDuration time.Duration
	Location      *time.Location
}

type analysisService struct {
	controller *upload.Controller
	opts       Options

	mu      sync.RWMutex
	last    *models.AnalysisResponse
	history view.HistoryView
}

func NewAnalysisService(controller *upload.Controller, opts Options) AnalysisService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = view.BreakpointLarge
	}
	return &analysisService{
		controller: controller,
		opts:       opts,
		history:    view.BuildHistory(nil, opts.Location),
	}
}

func (s *analysisService) Select(ctx context.Context, candidate models.Candidate) (*upload.Selection, error) {
	return s.controller.SelectFile(ctx, candidate)
}

func (s *analysisService) AnalyzePending(ctx context.Context, width int) (*Outcome, error) {
	return s.Analyze(ctx, s.controller.Pending(), width)
}

func (s *analysisService) Analyze(ctx context.Context, sel *upload.Selection, width int) (*Outcome, error) {
	resp, err := s.controller.Submit(ctx, sel)
	if err != nil {
		return nil, err
	}

	report := view.BuildReport(resp, s.profile(width))

	s.mu.Lock()
	s.last = resp
	s.mu.Unlock()

	// history reload runs after the analysis, never alongside it
	history := s.History(ctx)

	return &Outcome{
		Selection: sel,
		Response:  resp,
		Report:    report,
		History:   history,
	}, nil
}

func (s *analysisService) Rerender(width int) (view.Report, bool) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		return view.Report{}, false
	}
	return view.BuildReport(last, s.profile(width)), true
}

func (s *analysisService) History(ctx context.Context) view.HistoryView {
	entries, err := s.controller.LoadHistory(ctx)

	var v view.HistoryView
	if err != nil {
		logger.WithError(err).Warn("Failed to load history")
		v = view.HistoryError()
	} else {
		v = view.BuildHistory(entries, s.opts.Location)
	}

	s.mu.Lock()
	s.history = v
	s.mu.Unlock()
	return v
}

func (s *analysisService) CurrentHistory() view.HistoryView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history
}

func (s *analysisService) HistoryDetail(id int64) (view.HistoryDetail, error) {
	detail, ok := view.DetailFromView(s.CurrentHistory(), id)
	if !ok {
		return view.HistoryDetail{}, apperrors.NewNotFoundError(MsgDetailsError, nil)
	}
	return detail, nil
}

func (s *analysisService) AlertFor(err error) view.Alert {
	alert := view.Alert{Level: view.AlertDanger, Message: MsgAnalysisFailed, DismissAfter: s.opts.AlertDuration}

	appErr, ok := apperrors.As(err)
	if !ok {
		logger.WithError(err).Error("Unclassified error")
		return alert
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		alert.Message = appErr.Message
		if appErr.Code == apperrors.CodeNoSelection {
			alert.Level = view.AlertWarning
		}
	case apperrors.ErrorTypeBusy:
		alert.Level = view.AlertWarning
		alert.Message = appErr.Message
	case apperrors.ErrorTypeServer:
		if appErr.Message != "" {
			alert.Message = appErr.Message
		}
	case apperrors.ErrorTypeTransport:
		alert.Message = MsgNetworkError
	case apperrors.ErrorTypeNotFound:
		alert.Message = appErr.Message
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"error_type": appErr.Type,
		"alert":      alert.Message,
	}).Debug("Showing alert")
	return alert
}

func (s *analysisService) profile(width int) view.FormattingProfile {
	if width <= 0 {
		width = s.opts.ViewportWidth
	}
	return view.ProfileForWidth(width)
}
