package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"go-microplastic-inspector/pkg/models"
)

// LocalFileSource reads candidates from the local file system
type LocalFileSource struct {
	maxBytes int64
}

func NewLocalFileSource(maxBytes int64) *LocalFileSource {
	return &LocalFileSource{maxBytes: maxBytes}
}

// Fetch opens path and reads at most maxBytes+1 of it. The candidate size is
// the size on disk, so an oversize file is still reported with its real size.
// The declared type comes from the extension, like a browser file picker.
func (s *LocalFileSource) Fetch(ctx context.Context, path string) (models.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return models.Candidate{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return models.Candidate{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return models.Candidate{}, fmt.Errorf("%s is a directory", path)
	}

	data, err := readBounded(f, s.maxBytes)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("read %s: %w", path, err)
	}

	return models.Candidate{
		Name:     filepath.Base(path),
		MIMEType: contentType(mime.TypeByExtension(filepath.Ext(path)), data),
		Size:     info.Size(),
		Data:     data,
	}, nil
}
