package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	apperrors "go-microplastic-inspector/internal/errors"
	"go-microplastic-inspector/internal/logger"
	"go-microplastic-inspector/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// UploadField is the multipart field the backend reads the image from
	UploadField = "file"

	maxResponseBytes = 8 << 20
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// HTTPAnalysisRepository talks to the analysis backend over HTTP
type HTTPAnalysisRepository struct {
	baseURL string
	client  *http.Client
}

// NewHTTPAnalysisRepository creates a repository for the backend at baseURL.
// Uploads are never retried.
func NewHTTPAnalysisRepository(baseURL string, timeout time.Duration) *HTTPAnalysisRepository {
	return &HTTPAnalysisRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Upload posts the candidate as multipart field "file" and decodes the reply.
// The body is decoded whatever the status, since the backend reports
// failures as success:false payloads.
func (r *HTTPAnalysisRepository) Upload(ctx context.Context, candidate models.Candidate) (*models.AnalysisResponse, error) {
	body, contentType, err := multipartBody(candidate)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to encode upload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/upload", body)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to build upload request", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	fields := logrus.Fields{
		"request_id": requestID,
		"filename":   candidate.Name,
		"size":       candidate.Size,
	}
	logger.WithFields(fields).Debug("Uploading image for analysis")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, apperrors.NewTransportError("Upload request failed", err)
	}
	defer resp.Body.Close()

	var payload models.AnalysisResponse
	if err := decodeJSON(resp, &payload); err != nil {
		logger.WithError(err).WithFields(fields).Error("Undecodable analysis response")
		return nil, err
	}

	if !payload.Success {
		logger.WithFields(fields).WithField("status_code", resp.StatusCode).
			Warn("Backend reported analysis failure")
		return nil, apperrors.NewServerError(payload.Error)
	}

	return &payload, nil
}

// History fetches GET /history
func (r *HTTPAnalysisRepository) History(ctx context.Context) ([]models.HistoryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/history", nil)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to build history request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, apperrors.NewTransportError("History request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewTransportError("History request failed",
			fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
	}

	var entries []models.HistoryEntry
	if err := decodeJSON(resp, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func decodeJSON(resp *http.Response, v interface{}) error {
	err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(v)
	if err == nil {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewTransportError("Backend request failed",
			fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
	}
	return apperrors.NewTransportError("Backend response could not be decoded",
		fmt.Errorf("%w: %v", ErrMalformedResponse, err))
}

func multipartBody(candidate models.Candidate) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, UploadField, quoteEscaper.Replace(candidate.Name)))
	mimeType := candidate.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	header.Set("Content-Type", mimeType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(candidate.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
