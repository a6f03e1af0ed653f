package factory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go-microplastic-inspector/internal/config"
	apperrors "go-microplastic-inspector/internal/errors"
	"go-microplastic-inspector/internal/storage"
	"go-microplastic-inspector/pkg/models"
	"go-microplastic-inspector/pkg/validation"
)

// StorageType represents different places a candidate image can come from
type StorageType string

const (
	// HTTPStorage for http(s) URLs
	HTTPStorage StorageType = "http"
	// AzureStorage for azblob://container/blob references
	AzureStorage StorageType = "azure"
	// LocalStorage for paths on the local file system
	LocalStorage StorageType = "local"
)

// StorageTypeFor picks the backend for a reference by its scheme
func StorageTypeFor(ref string) StorageType {
	lower := strings.ToLower(strings.TrimSpace(ref))
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return HTTPStorage
	case strings.HasPrefix(lower, storage.BlobScheme+"://"):
		return AzureStorage
	default:
		return LocalStorage
	}
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.Source, error)
}

type storageFactory struct {
	cfg *config.Config
}

func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a source bounded by the configured upload size
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.Source, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(f.cfg.MaxUploadSize), nil
	case AzureStorage:
		if !f.cfg.HasAzureCredentials() {
			return nil, fmt.Errorf("azure storage requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
		return storage.NewAzureBlobSource(f.cfg.AzureAccountName, f.cfg.AzureAccountKey, f.cfg.MaxUploadSize)
	case LocalStorage:
		return storage.NewLocalFileSource(f.cfg.MaxUploadSize), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// SourceResolver validates a reference and fetches it from the matching backend.
// Sources are created on first use and reused.
type SourceResolver struct {
	factory   StorageFactory
	validator *validation.URLValidator

	mu      sync.Mutex
	sources map[StorageType]storage.Source
}

func NewSourceResolver(factory StorageFactory, validator *validation.URLValidator) *SourceResolver {
	return &SourceResolver{
		factory:   factory,
		validator: validator,
		sources:   make(map[StorageType]storage.Source),
	}
}

// Open resolves ref to a candidate. Failures are AppErrors.
func (r *SourceResolver) Open(ctx context.Context, ref string) (models.Candidate, error) {
	storageType := StorageTypeFor(ref)
	if storageType != LocalStorage {
		if err := r.validator.ValidateReference(ref); err != nil {
			return models.Candidate{}, err
		}
	}

	src, err := r.source(storageType)
	if err != nil {
		return models.Candidate{}, apperrors.NewInternalError("Image source unavailable", err)
	}

	candidate, err := src.Fetch(ctx, ref)
	if err != nil {
		if storageType == LocalStorage {
			return models.Candidate{}, apperrors.NewNotFoundError("Could not read "+ref, err)
		}
		return models.Candidate{}, apperrors.NewTransportError("Failed to fetch image", err)
	}
	return candidate, nil
}

func (r *SourceResolver) source(storageType StorageType) (storage.Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if src, ok := r.sources[storageType]; ok {
		return src, nil
	}
	src, err := r.factory.CreateStorage(storageType)
	if err != nil {
		return nil, err
	}
	r.sources[storageType] = src
	return src, nil
}
