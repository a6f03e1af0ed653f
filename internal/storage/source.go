package storage

import (
	"context"
	"io"
	"mime"

	"go-microplastic-inspector/pkg/models"

	"github.com/gabriel-vasile/mimetype"
)

// Source resolves a reference (path, URL, blob) to an upload candidate
type Source interface {
	Fetch(ctx context.Context, ref string) (models.Candidate, error)
}

// readBounded reads at most limit+1 bytes, so oversize input shows up as
// len(data) > limit without reading all of it. limit <= 0 means unbounded.
func readBounded(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	return io.ReadAll(io.LimitReader(r, limit+1))
}

// contentType prefers a declared media type and sniffs the bytes otherwise
func contentType(declared string, data []byte) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
		if mediaType != "" && mediaType != "application/octet-stream" {
			return mediaType
		}
	}
	return mimetype.Detect(data).String()
}
