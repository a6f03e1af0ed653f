package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// UIEvent is something the controller reports while handling a user action
type UIEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	SelectionID    string                 `json:"selection_id,omitempty"`
	Filename       string                 `json:"filename,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of UI event
type EventType string

const (
	// FileSelected when a candidate becomes the pending selection
	FileSelected EventType = "file_selected"
	// SelectionRejected when a candidate fails validation
	SelectionRejected EventType = "selection_rejected"
	// AnalysisStarted when an upload begins
	AnalysisStarted EventType = "analysis_started"
	// AnalysisCompleted when the backend returned a successful analysis
	AnalysisCompleted EventType = "analysis_completed"
	// AnalysisFailed when the upload or the analysis failed
	AnalysisFailed EventType = "analysis_failed"
	// HistoryLoaded when the history list was fetched
	HistoryLoaded EventType = "history_loaded"
	// HistoryFailed when the history fetch failed
	HistoryFailed EventType = "history_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event UIEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event UIEvent)
}

// LoggingObserver writes events as the diagnostic record of each action
type LoggingObserver struct {
	logger *logrus.Logger
}

func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

func (o *LoggingObserver) OnEvent(ctx context.Context, event UIEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"success":    event.Success,
	}
	if event.SelectionID != "" {
		fields["selection_id"] = event.SelectionID
	}
	if event.Filename != "" {
		fields["filename"] = event.Filename
	}
	if event.ProcessingTime > 0 {
		fields["processing_time"] = event.ProcessingTime
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case FileSelected:
		entry.Debug("File selected")
	case SelectionRejected:
		entry.Warn("File rejected")
	case AnalysisStarted:
		entry.Info("Analysis started")
	case AnalysisCompleted:
		entry.Info("Analysis completed")
	case AnalysisFailed:
		entry.Error("Analysis failed")
	case HistoryLoaded:
		entry.Debug("History loaded")
	case HistoryFailed:
		entry.Error("History load failed")
	default:
		entry.Info("UI event occurred")
	}
}

func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// Metrics is a point-in-time copy of the MetricsObserver counters
type Metrics struct {
	Selections          int64         `json:"selections"`
	Rejections          int64         `json:"rejections"`
	TotalAnalyses       int64         `json:"total_analyses"`
	SuccessfulAnalyses  int64         `json:"successful_analyses"`
	FailedAnalyses      int64         `json:"failed_analyses"`
	HistoryLoads        int64         `json:"history_loads"`
	HistoryFailures     int64         `json:"history_failures"`
	TotalProcessingTime time.Duration `json:"total_processing_time"`
	AvgProcessingTime   time.Duration `json:"avg_processing_time"`
}

// MetricsObserver counts events
type MetricsObserver struct {
	mu sync.RWMutex
	m  Metrics
}

func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

func (o *MetricsObserver) OnEvent(ctx context.Context, event UIEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case FileSelected:
		o.m.Selections++
	case SelectionRejected:
		o.m.Rejections++
	case AnalysisStarted:
		o.m.TotalAnalyses++
	case AnalysisCompleted:
		o.m.SuccessfulAnalyses++
		o.m.TotalProcessingTime += event.ProcessingTime
	case AnalysisFailed:
		o.m.FailedAnalyses++
	case HistoryLoaded:
		o.m.HistoryLoads++
	case HistoryFailed:
		o.m.HistoryFailures++
	}
}

func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() Metrics {
	o.mu.RLock()
	defer o.mu.RUnlock()

	m := o.m
	if m.SuccessfulAnalyses > 0 {
		m.AvgProcessingTime = m.TotalProcessingTime / time.Duration(m.SuccessfulAnalyses)
	}
	return m
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes the first observer with the same name
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers the event to every observer on its own goroutine.
// A panicking observer is logged and does not affect the others.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event UIEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
