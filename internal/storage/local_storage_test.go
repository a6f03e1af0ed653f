package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestLocalFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	pngData := testPNG(t)

	tests := []struct {
		name       string
		file       string
		data       []byte
		wantPrefix string
	}{
		{"by extension", "sample.png", pngData, "image/png"},
		{"sniffed without extension", "sample", pngData, "image/png"},
		{"text file", "notes.txt", []byte("just some notes"), "text/plain"},
	}

	src := NewLocalFileSource(1024 * 1024)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, dir, tt.file, tt.data)
			candidate, err := src.Fetch(context.Background(), p)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !strings.HasPrefix(candidate.MIMEType, tt.wantPrefix) {
				t.Errorf("Expected MIME %s, got %s", tt.wantPrefix, candidate.MIMEType)
			}
			if candidate.Name != tt.file {
				t.Errorf("Expected name %s, got %s", tt.file, candidate.Name)
			}
			if !bytes.Equal(candidate.Data, tt.data) {
				t.Error("Expected the full file contents")
			}
		})
	}
}

func TestLocalFileSource_OversizeKeepsRealSize(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "big.jpg", bytes.Repeat([]byte{0xff}, 100))

	candidate, err := NewLocalFileSource(4).Fetch(context.Background(), p)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if candidate.Size != 100 {
		t.Errorf("Expected size 100, got %d", candidate.Size)
	}
	if len(candidate.Data) != 5 {
		t.Errorf("Expected 5 bytes read, got %d", len(candidate.Data))
	}
}

func TestLocalFileSource_Errors(t *testing.T) {
	dir := t.TempDir()
	src := NewLocalFileSource(1024)

	if _, err := src.Fetch(context.Background(), filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected error for a missing file")
	}
	if _, err := src.Fetch(context.Background(), dir); err == nil {
		t.Error("Expected error for a directory")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := writeFile(t, dir, "a.png", testPNG(t))
	if _, err := src.Fetch(ctx, p); err == nil {
		t.Error("Expected error for a cancelled context")
	}
}

func TestParseBlobRef(t *testing.T) {
	tests := []struct {
		ref           string
		wantContainer string
		wantBlob      string
		wantErr       bool
	}{
		{"azblob://samples/beach.jpg", "samples", "beach.jpg", false},
		{"azblob://samples/2024/03/river.png", "samples", "2024/03/river.png", false},
		{"azblob://samples", "", "", true},
		{"azblob:///beach.jpg", "", "", true},
		{"https://samples/beach.jpg", "", "", true},
	}

	for _, tt := range tests {
		container, blob, err := ParseBlobRef(tt.ref)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseBlobRef(%q): expected error", tt.ref)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBlobRef(%q): unexpected error %v", tt.ref, err)
			continue
		}
		if container != tt.wantContainer || blob != tt.wantBlob {
			t.Errorf("ParseBlobRef(%q) = %s, %s", tt.ref, container, blob)
		}
	}
}
