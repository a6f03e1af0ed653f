package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"

	"go-microplastic-inspector/pkg/models"
)

const (
	fetchAttempts  = 3
	defaultBackoff = time.Second
)

// HTTPImageFetcher downloads candidates over http(s)
type HTTPImageFetcher struct {
	client   *http.Client
	maxBytes int64
	backoff  time.Duration
}

// NewHTTPImageFetcher creates a fetcher tuned for single image downloads
func NewHTTPImageFetcher(maxBytes int64) *HTTPImageFetcher {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes: maxBytes,
		backoff:  defaultBackoff,
	}
}

// Fetch downloads imageURL. Network errors and 5xx responses are retried
// with a linear backoff; 4xx responses are returned at once.
func (h *HTTPImageFetcher) Fetch(ctx context.Context, imageURL string) (models.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "Go-Microplastic-Inspector/1.0")

	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return models.Candidate{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * h.backoff):
			}
		}

		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return h.candidateFrom(req.URL, resp)
		}
		resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return models.Candidate{}, fmt.Errorf("client error: status code %d", resp.StatusCode)
		}
		lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
	}

	return models.Candidate{}, fmt.Errorf("failed to fetch image after %d attempts: %w", fetchAttempts, lastErr)
}

func (h *HTTPImageFetcher) candidateFrom(u *url.URL, resp *http.Response) (models.Candidate, error) {
	defer resp.Body.Close()

	data, err := readBounded(resp.Body, h.maxBytes)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to read image body: %w", err)
	}

	size := int64(len(data))
	if resp.ContentLength > size {
		size = resp.ContentLength
	}

	return models.Candidate{
		Name:     nameFromURL(u),
		MIMEType: contentType(resp.Header.Get("Content-Type"), data),
		Size:     size,
		Data:     data,
	}, nil
}

func nameFromURL(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return u.Host
	}
	return base
}
