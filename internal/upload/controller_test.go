package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	apperrors "go-microplastic-inspector/internal/errors"
	"go-microplastic-inspector/internal/observer"
	"go-microplastic-inspector/pkg/models"
)

const maxSize = 10 * 1024 * 1024

type fakeRepo struct {
	mu       sync.Mutex
	uploads  int
	release  chan struct{}
	started  chan struct{}
	resp     *models.AnalysisResponse
	err      error
	history  []models.HistoryEntry
	histErr  error
	lastName string
}

func (f *fakeRepo) Upload(ctx context.Context, c models.Candidate) (*models.AnalysisResponse, error) {
	f.mu.Lock()
	f.uploads++
	f.lastName = c.Name
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.resp, f.err
}

func (f *fakeRepo) History(ctx context.Context) ([]models.HistoryEntry, error) {
	return f.history, f.histErr
}

type recorder struct {
	mu     sync.Mutex
	events []observer.EventType
}

func (r *recorder) Subscribe(observer.Observer)   {}
func (r *recorder) Unsubscribe(observer.Observer) {}
func (r *recorder) NotifyObservers(ctx context.Context, e observer.UIEvent) {
	r.mu.Lock()
	r.events = append(r.events, e.EventType)
	r.mu.Unlock()
}

func (r *recorder) types() []observer.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]observer.EventType(nil), r.events...)
}

func pngCandidate(t *testing.T, name string) models.Candidate {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 32, 16))); err != nil {
		t.Fatal(err)
	}
	return models.Candidate{Name: name, MIMEType: "image/png", Size: int64(buf.Len()), Data: buf.Bytes()}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		size     int64
		wantCode string
	}{
		{"jpeg ok", "image/jpeg", 1024, ""},
		{"upper case type", "IMAGE/PNG", 1024, ""},
		{"exactly the limit", "image/png", maxSize, ""},
		{"one byte over", "image/png", maxSize + 1, apperrors.CodeTooLarge},
		{"pdf", "application/pdf", 1024, apperrors.CodeInvalidType},
		{"empty type", "", 1024, apperrors.CodeInvalidType},
		{"type checked before size", "text/plain", maxSize * 2, apperrors.CodeInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(models.Candidate{MIMEType: tt.mimeType, Size: tt.size}, maxSize)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Expected valid, got %v", err)
				}
				return
			}
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("Expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestTooLargeMessage(t *testing.T) {
	if got := TooLargeMessage(maxSize); got != "File size must be less than 10MB." {
		t.Errorf("Unexpected message %q", got)
	}
	if got := TooLargeMessage(1000); got != "File size must be less than 1000 bytes." {
		t.Errorf("Unexpected message %q", got)
	}
}

func TestSelectFile(t *testing.T) {
	rec := &recorder{}
	c := NewController(&fakeRepo{}, rec, maxSize)

	first, err := c.SelectFile(context.Background(), pngCandidate(t, "a.png"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first.ID == "" || first.Preview == nil {
		t.Fatalf("Expected id and preview, got %+v", first)
	}
	if first.Preview.Format != "png" || first.Preview.Width != 32 || first.Preview.Height != 16 {
		t.Errorf("Unexpected preview %+v", first.Preview)
	}

	_, err = c.SelectFile(context.Background(), models.Candidate{Name: "doc.pdf", MIMEType: "application/pdf", Size: 10})
	if !apperrors.HasCode(err, apperrors.CodeInvalidType) {
		t.Errorf("Expected invalid type, got %v", err)
	}
	if c.Pending() != first {
		t.Error("A rejected candidate must not replace the pending selection")
	}

	second, err := c.SelectFile(context.Background(), pngCandidate(t, "b.png"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Pending() != second || second.ID == first.ID {
		t.Error("Expected the new selection to replace the old one")
	}

	c.Clear()
	if c.Pending() != nil {
		t.Error("Expected no pending selection after Clear")
	}

	want := []observer.EventType{observer.FileSelected, observer.SelectionRejected, observer.FileSelected}
	got := rec.types()
	if len(got) != len(want) {
		t.Fatalf("Expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestSelectFile_UndecodableStillSelects(t *testing.T) {
	c := NewController(&fakeRepo{}, nil, maxSize)
	sel, err := c.SelectFile(context.Background(), models.Candidate{Name: "x.jpg", MIMEType: "image/jpeg", Size: 3, Data: []byte{1, 2, 3}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sel.Preview != nil {
		t.Errorf("Expected no preview, got %+v", sel.Preview)
	}
}

func TestSubmit_NoSelection(t *testing.T) {
	repo := &fakeRepo{}
	c := NewController(repo, nil, maxSize)

	_, err := c.Submit(context.Background(), nil)
	if !apperrors.HasCode(err, apperrors.CodeNoSelection) {
		t.Errorf("Expected no_selection, got %v", err)
	}
	if repo.uploads != 0 {
		t.Error("No request may be made without a selection")
	}
}

func TestSubmit_Success(t *testing.T) {
	rec := &recorder{}
	repo := &fakeRepo{resp: &models.AnalysisResponse{Success: true, Analysis: &models.AnalysisResult{ParticleCount: 4}}}
	c := NewController(repo, rec, maxSize)

	sel, _ := c.SelectFile(context.Background(), pngCandidate(t, "a.png"))
	resp, err := c.Submit(context.Background(), sel)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.AnalysisOrEmpty().ParticleCount != 4 || repo.lastName != "a.png" {
		t.Errorf("Unexpected result %+v", resp)
	}
	if c.Busy() {
		t.Error("Expected the busy flag to be released")
	}

	got := rec.types()
	if got[len(got)-2] != observer.AnalysisStarted || got[len(got)-1] != observer.AnalysisCompleted {
		t.Errorf("Unexpected events %v", got)
	}
}

func TestSubmit_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType apperrors.ErrorType
	}{
		{"server failure kept", apperrors.NewServerError("No file provided"), apperrors.ErrorTypeServer},
		{"transport failure kept", apperrors.NewTransportError("down", nil), apperrors.ErrorTypeTransport},
		{"plain error wrapped", errors.New("connection reset"), apperrors.ErrorTypeTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(&fakeRepo{err: tt.err}, nil, maxSize)
			sel, _ := c.SelectFile(context.Background(), pngCandidate(t, "a.png"))

			_, err := c.Submit(context.Background(), sel)
			if !apperrors.IsType(err, tt.wantType) {
				t.Errorf("Expected %s, got %v", tt.wantType, err)
			}
			if c.Busy() {
				t.Error("A failed submission must release the busy flag")
			}
			if c.Pending() != sel {
				t.Error("A failed submission keeps the selection")
			}
		})
	}
}

func TestSubmit_RejectsWhileInFlight(t *testing.T) {
	repo := &fakeRepo{
		resp:    &models.AnalysisResponse{Success: true},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	c := NewController(repo, nil, maxSize)
	sel, _ := c.SelectFile(context.Background(), pngCandidate(t, "a.png"))

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), sel)
		done <- err
	}()

	select {
	case <-repo.started:
	case <-time.After(2 * time.Second):
		t.Fatal("First submission never started")
	}

	if !c.Busy() {
		t.Error("Expected busy while the first upload is in flight")
	}
	_, err := c.Submit(context.Background(), sel)
	if !apperrors.IsType(err, apperrors.ErrorTypeBusy) {
		t.Errorf("Expected busy error, got %v", err)
	}

	close(repo.release)
	if err := <-done; err != nil {
		t.Errorf("First submission failed: %v", err)
	}
	if repo.uploads != 1 {
		t.Errorf("Expected exactly one upload, got %d", repo.uploads)
	}

	repo.started = nil
	if _, err := c.Submit(context.Background(), sel); err != nil {
		t.Errorf("Expected a later submission to go through, got %v", err)
	}
}

func TestLoadHistory(t *testing.T) {
	rec := &recorder{}
	entries := []models.HistoryEntry{{ID: 1, Filename: "a.jpg"}}

	c := NewController(&fakeRepo{history: entries}, rec, maxSize)
	got, err := c.LoadHistory(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("Unexpected result %v %v", got, err)
	}

	c = NewController(&fakeRepo{histErr: apperrors.NewTransportError("down", nil)}, rec, maxSize)
	if _, err := c.LoadHistory(context.Background()); err == nil {
		t.Error("Expected the error to be returned")
	}

	types := rec.types()
	if types[0] != observer.HistoryLoaded || types[1] != observer.HistoryFailed {
		t.Errorf("Unexpected events %v", types)
	}
}
