// Package upload holds the client-side state of one user: the pending
// selection and whether an analysis is in flight.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	apperrors "go-microplastic-inspector/internal/errors"
	"go-microplastic-inspector/internal/observer"
	"go-microplastic-inspector/internal/repository"
	"go-microplastic-inspector/pkg/models"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	MsgInvalidType = "Please select a valid image file."
	MsgNoSelection = "Please select an image first."
	MsgBusy        = "An analysis is already in progress. Please wait for it to finish."
)

// Preview is what is known about a selection without any network call
type Preview struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Selection is an accepted candidate. It is never mutated after SelectFile
// returns it; a new selection replaces it instead.
type Selection struct {
	ID         string
	Candidate  models.Candidate
	Preview    *Preview
	SelectedAt time.Time
}

// Controller validates selections and submits them, one at a time
type Controller struct {
	repo      repository.AnalysisRepository
	publisher observer.Subject
	maxSize   int64

	mu      sync.Mutex
	pending *Selection

	busy atomic.Bool
}

func NewController(repo repository.AnalysisRepository, publisher observer.Subject, maxSize int64) *Controller {
	return &Controller{
		repo:      repo,
		publisher: publisher,
		maxSize:   maxSize,
	}
}

// Validate applies the pre-submission rules: an image/* type and a size
// within maxSize.
func Validate(c models.Candidate, maxSize int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(c.MIMEType)), "image/") {
		return apperrors.NewValidationError(apperrors.CodeInvalidType, MsgInvalidType,
			fmt.Errorf("unsupported type %q", c.MIMEType))
	}
	if c.Size > maxSize || int64(len(c.Data)) > maxSize {
		return apperrors.NewValidationError(apperrors.CodeTooLarge, TooLargeMessage(maxSize),
			fmt.Errorf("%d bytes exceeds %d", c.Size, maxSize))
	}
	return nil
}

// TooLargeMessage is the rejection text for the configured limit
func TooLargeMessage(maxSize int64) string {
	const mib = 1024 * 1024
	if maxSize >= mib && maxSize%mib == 0 {
		return fmt.Sprintf("File size must be less than %dMB.", maxSize/mib)
	}
	return fmt.Sprintf("File size must be less than %d bytes.", maxSize)
}

// SelectFile validates c and makes it the pending selection. A rejected
// candidate leaves the previous selection in place.
func (c *Controller) SelectFile(ctx context.Context, candidate models.Candidate) (*Selection, error) {
	if err := Validate(candidate, c.maxSize); err != nil {
		c.publish(ctx, observer.UIEvent{
			EventType:    observer.SelectionRejected,
			Filename:     candidate.Name,
			ErrorMessage: err.Error(),
		})
		return nil, err
	}

	sel := &Selection{
		ID:         uuid.NewString(),
		Candidate:  candidate,
		Preview:    previewOf(candidate.Data),
		SelectedAt: time.Now(),
	}

	c.mu.Lock()
	c.pending = sel
	c.mu.Unlock()

	c.publish(ctx, observer.UIEvent{
		EventType:   observer.FileSelected,
		SelectionID: sel.ID,
		Filename:    candidate.Name,
		Success:     true,
		Metadata:    map[string]interface{}{"size": candidate.Size, "mime_type": candidate.MIMEType},
	})
	return sel, nil
}

// previewOf decodes only the image header. Undecodable data yields nil.
func previewOf(data []byte) *Preview {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return &Preview{Format: format, Width: cfg.Width, Height: cfg.Height}
}

func (c *Controller) Pending() *Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Controller) Clear() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// Busy reports whether a submission is in flight
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// Submit uploads sel once. A call made while another is in flight is
// rejected with a busy error rather than queued.
func (c *Controller) Submit(ctx context.Context, sel *Selection) (*models.AnalysisResponse, error) {
	if sel == nil {
		return nil, apperrors.NewValidationError(apperrors.CodeNoSelection, MsgNoSelection, nil)
	}
	if !c.busy.CompareAndSwap(false, true) {
		return nil, apperrors.NewBusyError(MsgBusy)
	}
	defer c.busy.Store(false)

	c.publish(ctx, observer.UIEvent{
		EventType:   observer.AnalysisStarted,
		SelectionID: sel.ID,
		Filename:    sel.Candidate.Name,
	})

	start := time.Now()
	resp, err := c.repo.Upload(ctx, sel.Candidate)
	elapsed := time.Since(start)

	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			err = apperrors.NewTransportError("Upload failed", err)
		}
		c.publish(ctx, observer.UIEvent{
			EventType:      observer.AnalysisFailed,
			SelectionID:    sel.ID,
			Filename:       sel.Candidate.Name,
			ProcessingTime: elapsed,
			ErrorMessage:   err.Error(),
		})
		return nil, err
	}

	c.publish(ctx, observer.UIEvent{
		EventType:      observer.AnalysisCompleted,
		SelectionID:    sel.ID,
		Filename:       sel.Candidate.Name,
		ProcessingTime: elapsed,
		Success:        true,
		Metadata:       map[string]interface{}{"particle_count": resp.AnalysisOrEmpty().ParticleCount},
	})
	return resp, nil
}

// LoadHistory fetches the full history list
func (c *Controller) LoadHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	entries, err := c.repo.History(ctx)
	if err != nil {
		c.publish(ctx, observer.UIEvent{EventType: observer.HistoryFailed, ErrorMessage: err.Error()})
		return nil, err
	}
	c.publish(ctx, observer.UIEvent{
		EventType: observer.HistoryLoaded,
		Success:   true,
		Metadata:  map[string]interface{}{"entries": len(entries)},
	})
	return entries, nil
}

func (c *Controller) publish(ctx context.Context, e observer.UIEvent) {
	if c.publisher != nil {
		c.publisher.NotifyObservers(ctx, e)
	}
}
