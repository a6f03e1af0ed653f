package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"go-microplastic-inspector/pkg/models"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobScheme is the reference scheme resolved by AzureBlobSource
const BlobScheme = "azblob"

// AzureBlobSource downloads candidates from Azure blob storage
type AzureBlobSource struct {
	client   *azblob.Client
	maxBytes int64
}

func NewAzureBlobSource(accountName, accountKey string, maxBytes int64) (*AzureBlobSource, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &AzureBlobSource{client: client, maxBytes: maxBytes}, nil
}

// ParseBlobRef splits azblob://container/path/to/blob
func ParseBlobRef(ref string) (container, blob string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob reference: %w", err)
	}
	if u.Scheme != BlobScheme {
		return "", "", fmt.Errorf("invalid blob reference scheme %q", u.Scheme)
	}

	container = u.Host
	blob = strings.TrimPrefix(u.Path, "/")
	if container == "" || blob == "" {
		return "", "", fmt.Errorf("blob reference must name a container and a blob: %s", ref)
	}
	return container, blob, nil
}

func (s *AzureBlobSource) Fetch(ctx context.Context, ref string) (models.Candidate, error) {
	container, blob, err := ParseBlobRef(ref)
	if err != nil {
		return models.Candidate{}, err
	}

	resp, err := s.client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := readBounded(resp.Body, s.maxBytes)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to read blob: %w", err)
	}

	size := int64(len(data))
	if resp.ContentLength != nil && *resp.ContentLength > size {
		size = *resp.ContentLength
	}
	declared := ""
	if resp.ContentType != nil {
		declared = *resp.ContentType
	}

	return models.Candidate{
		Name:     path.Base(blob),
		MIMEType: contentType(declared, data),
		Size:     size,
		Data:     data,
	}, nil
}
