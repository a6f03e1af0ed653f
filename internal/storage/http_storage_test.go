package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestFetcher(maxBytes int64) *HTTPImageFetcher {
	f := NewHTTPImageFetcher(maxBytes)
	f.backoff = time.Millisecond
	return f
}

func TestHTTPImageFetcher_RetryLogic(t *testing.T) {
	pngData := testPNG(t)

	tests := []struct {
		name          string
		responses     []int
		expectReqs    int
		expectError   bool
		errorContains string
	}{
		{
			name:       "Success on first attempt",
			responses:  []int{200},
			expectReqs: 1,
		},
		{
			name:       "Success on second attempt after 5xx",
			responses:  []int{500, 200},
			expectReqs: 2,
		},
		{
			name:          "4xx client error - no retry",
			responses:     []int{404},
			expectReqs:    1,
			expectError:   true,
			errorContains: "client error: status code 404",
		},
		{
			name:          "4xx after 5xx - stop at the 4xx",
			responses:     []int{500, 404},
			expectReqs:    2,
			expectError:   true,
			errorContains: "client error: status code 404",
		},
		{
			name:          "All 5xx errors - retry all attempts",
			responses:     []int{500, 502, 503},
			expectReqs:    3,
			expectError:   true,
			errorContains: "server error: status code 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestCount := 0

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if requestCount >= len(tt.responses) {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				statusCode := tt.responses[requestCount]
				requestCount++

				if statusCode == http.StatusOK {
					w.Header().Set("Content-Type", "image/png")
					w.Write(pngData)
					return
				}
				w.WriteHeader(statusCode)
				w.Write([]byte(fmt.Sprintf("Error %d", statusCode)))
			}))
			defer server.Close()

			candidate, err := newTestFetcher(1024*1024).Fetch(context.Background(), server.URL+"/beach.png")

			if requestCount != tt.expectReqs {
				t.Errorf("Expected %d requests, got %d", tt.expectReqs, requestCount)
			}

			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error, but got none")
				}
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Expected error to contain '%s', got: %s", tt.errorContains, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error, got: %s", err.Error())
			}
			if candidate.Name != "beach.png" || candidate.MIMEType != "image/png" {
				t.Errorf("Unexpected candidate: %s %s", candidate.Name, candidate.MIMEType)
			}
			if !bytes.Equal(candidate.Data, pngData) || candidate.Size != int64(len(pngData)) {
				t.Errorf("Unexpected candidate payload, size %d", candidate.Size)
			}
		})
	}
}

func TestHTTPImageFetcher_NetworkError_Retry(t *testing.T) {
	pngData := testPNG(t)
	requestCount := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		if requestCount < 3 {
			hj, ok := w.(http.Hijacker)
			if ok {
				conn, _, _ := hj.Hijack()
				conn.Close()
			}
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngData)
	}))
	defer server.Close()

	_, err := newTestFetcher(1024*1024).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Errorf("Expected success after retries, got error: %s", err.Error())
	}
	if requestCount != 3 {
		t.Errorf("Expected 3 requests, got %d", requestCount)
	}
}

func TestHTTPImageFetcher_SniffsUndeclaredType(t *testing.T) {
	pngData := testPNG(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(pngData)
	}))
	defer server.Close()

	candidate, err := newTestFetcher(1024).Fetch(context.Background(), server.URL+"/download")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if candidate.MIMEType != "image/png" {
		t.Errorf("Expected sniffed image/png, got %s", candidate.MIMEType)
	}
}

func TestHTTPImageFetcher_BoundedRead(t *testing.T) {
	body := bytes.Repeat([]byte("x"), 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(body)
	}))
	defer server.Close()

	candidate, err := newTestFetcher(10).Fetch(context.Background(), server.URL+"/big.jpg")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(candidate.Data) != 11 {
		t.Errorf("Expected to stop after limit+1 bytes, read %d", len(candidate.Data))
	}
	if candidate.Size != 100 {
		t.Errorf("Expected declared size 100, got %d", candidate.Size)
	}
}

func TestHTTPImageFetcher_ContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := NewHTTPImageFetcher(1024)
	f.backoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, server.URL)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if ctx.Err() == nil {
		t.Error("Expected the context to have expired")
	}
}
