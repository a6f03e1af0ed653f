package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "go-microplastic-inspector/internal/errors"
	"go-microplastic-inspector/internal/upload"
	"go-microplastic-inspector/internal/view"
	"go-microplastic-inspector/pkg/models"
)

type fakeRepo struct {
	mu         sync.Mutex
	calls      []string
	resp       *models.AnalysisResponse
	uploadErr  error
	history    []models.HistoryEntry
	historyErr error
}

func (f *fakeRepo) Upload(ctx context.Context, c models.Candidate) (*models.AnalysisResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "upload")
	f.mu.Unlock()
	return f.resp, f.uploadErr
}

func (f *fakeRepo) History(ctx context.Context) ([]models.HistoryEntry, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "history")
	f.mu.Unlock()
	return f.history, f.historyErr
}

func newService(repo *fakeRepo) AnalysisService {
	controller := upload.NewController(repo, nil, 10*1024*1024)
	return NewAnalysisService(controller, Options{
		ViewportWidth: 1200,
		AlertDuration: 5 * time.Second,
		Location:      time.UTC,
	})
}

func jpeg(name string) models.Candidate {
	return models.Candidate{Name: name, MIMEType: "image/jpeg", Size: 3, Data: []byte{1, 2, 3}}
}

func successResponse() *models.AnalysisResponse {
	return &models.AnalysisResponse{
		Success: true,
		Analysis: &models.AnalysisResult{
			ParticleCount:     12,
			Types:             []string{"Polyethylene Terephthalate (PET)", "Fragment"},
			Counts:            []int{7, 5},
			AverageConfidence: 0.85,
		},
	}
}

func TestAnalyze_ReportThenHistory(t *testing.T) {
	repo := &fakeRepo{
		resp: successResponse(),
		history: []models.HistoryEntry{{
			ID: 1, Filename: "a.jpg", ParticleCount: 12,
			Date: models.Timestamp{Time: time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)},
		}},
	}
	s := newService(repo)

	if _, err := s.Select(context.Background(), jpeg("a.jpg")); err != nil {
		t.Fatal(err)
	}
	out, err := s.AnalyzePending(context.Background(), 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if out.Report.Summary.ParticleCount != 12 || out.Report.Summary.Confidence != "85%" {
		t.Errorf("Unexpected summary %+v", out.Report.Summary)
	}
	if len(out.History.Items) != 1 {
		t.Errorf("Expected refreshed history, got %+v", out.History)
	}
	if len(repo.calls) != 2 || repo.calls[0] != "upload" || repo.calls[1] != "history" {
		t.Errorf("Expected upload then history, got %v", repo.calls)
	}
	if out.Selection == nil || out.Selection.Candidate.Name != "a.jpg" {
		t.Errorf("Expected the submitted selection in the outcome")
	}
}

func TestAnalyze_FailureSkipsHistory(t *testing.T) {
	repo := &fakeRepo{uploadErr: apperrors.NewServerError("No file provided")}
	s := newService(repo)
	sel, _ := s.Select(context.Background(), jpeg("a.jpg"))

	_, err := s.Analyze(context.Background(), sel, 1200)
	if !apperrors.IsType(err, apperrors.ErrorTypeServer) {
		t.Fatalf("Expected server error, got %v", err)
	}
	if len(repo.calls) != 1 {
		t.Errorf("History must not reload after a failed analysis, calls %v", repo.calls)
	}
	if _, ok := s.Rerender(800); ok {
		t.Error("Expected nothing to rerender")
	}
}

func TestRerender_UsesNewWidth(t *testing.T) {
	s := newService(&fakeRepo{resp: successResponse()})
	sel, _ := s.Select(context.Background(), jpeg("a.jpg"))

	out, err := s.Analyze(context.Background(), sel, 1300)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Report.TypeChart.Slices[0].Label; got != "Polyethylene Tere..." {
		t.Errorf("Unexpected wide label %q", got)
	}

	narrow, ok := s.Rerender(400)
	if !ok {
		t.Fatal("Expected a report to rerender")
	}
	if got := narrow.TypeChart.Slices[0].Label; got != "Polye..." {
		t.Errorf("Unexpected narrow label %q", got)
	}
}

func TestHistory_ErrorReplacesView(t *testing.T) {
	repo := &fakeRepo{history: []models.HistoryEntry{{ID: 4, Filename: "x.jpg"}}}
	s := newService(repo)

	if v := s.History(context.Background()); len(v.Items) != 1 {
		t.Fatalf("Unexpected view %+v", v)
	}
	if _, err := s.HistoryDetail(4); err != nil {
		t.Errorf("Expected detail for 4, got %v", err)
	}

	repo.historyErr = errors.New("connection refused")
	v := s.History(context.Background())
	if v.Placeholder != view.HistoryErrorPlaceholder || len(v.Items) != 0 {
		t.Errorf("Expected error placeholder, got %+v", v)
	}
	if s.CurrentHistory().Placeholder != view.HistoryErrorPlaceholder {
		t.Error("Expected the held view to be replaced")
	}

	_, err := s.HistoryDetail(4)
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("Expected not found after the view was replaced, got %v", err)
	}
}

func TestAlertFor(t *testing.T) {
	s := newService(&fakeRepo{})

	tests := []struct {
		name      string
		err       error
		wantLevel view.AlertLevel
		wantMsg   string
	}{
		{"invalid type", apperrors.NewValidationError(apperrors.CodeInvalidType, upload.MsgInvalidType, nil), view.AlertDanger, "Please select a valid image file."},
		{"too large", apperrors.NewValidationError(apperrors.CodeTooLarge, upload.TooLargeMessage(10*1024*1024), nil), view.AlertDanger, "File size must be less than 10MB."},
		{"no selection", apperrors.NewValidationError(apperrors.CodeNoSelection, upload.MsgNoSelection, nil), view.AlertWarning, "Please select an image first."},
		{"busy", apperrors.NewBusyError(upload.MsgBusy), view.AlertWarning, upload.MsgBusy},
		{"server message", apperrors.NewServerError("Model not loaded"), view.AlertDanger, "Model not loaded"},
		{"server without message", apperrors.NewServerError(""), view.AlertDanger, "Analysis failed."},
		{"transport", apperrors.NewTransportError("dial tcp", errors.New("refused")), view.AlertDanger, "Network error. Please try again."},
		{"plain error", errors.New("???"), view.AlertDanger, "Analysis failed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := s.AlertFor(tt.err)
			if a.Level != tt.wantLevel || a.Message != tt.wantMsg {
				t.Errorf("Got %s %q, want %s %q", a.Level, a.Message, tt.wantLevel, tt.wantMsg)
			}
			if a.DismissAfter != 5*time.Second {
				t.Errorf("Expected 5s dismissal, got %v", a.DismissAfter)
			}
		})
	}
}

func TestAnalyze_NoSelection(t *testing.T) {
	repo := &fakeRepo{}
	s := newService(repo)
	_, err := s.AnalyzePending(context.Background(), 0)
	if !apperrors.HasCode(err, apperrors.CodeNoSelection) {
		t.Errorf("Expected no_selection, got %v", err)
	}
	if len(repo.calls) != 0 {
		t.Errorf("Expected no backend calls, got %v", repo.calls)
	}
}
