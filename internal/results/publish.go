package results

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/dialogeval/humanstudy/internal/models"
)

type blobUploader interface {
	UploadBuffer(ctx context.Context, containerName string, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

// Publisher copies results documents to Azure Blob Storage for the
// human-study web frontend.
type Publisher struct {
	client    blobUploader
	container string
	prefix    string
}

// NewPublisher authenticates with the default Azure credential chain.
func NewPublisher(cfg models.PublishConfig) (*Publisher, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	client, err := azblob.NewClient(cfg.AccountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("blob client for %s: %w", cfg.AccountURL, err)
	}
	return newPublisher(client, cfg), nil
}

func newPublisher(client blobUploader, cfg models.PublishConfig) *Publisher {
	return &Publisher{client: client, container: cfg.Container, prefix: cfg.Prefix}
}

// BlobName returns where a study's results are stored in the container.
func (p *Publisher) BlobName(study string) string {
	return path.Join(p.prefix, study, Filename)
}

// Publish uploads the file at localPath as the results of study and returns
// the blob name.
func (p *Publisher) Publish(ctx context.Context, localPath, study string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read results: %w", err)
	}

	name := p.BlobName(study)
	_, err = p.client.UploadBuffer(ctx, p.container, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr("application/json")},
	})
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) {
			return "", fmt.Errorf("upload %s/%s: %s (HTTP %d)", p.container, name, respErr.ErrorCode, respErr.StatusCode)
		}
		return "", fmt.Errorf("upload %s/%s: %w", p.container, name, err)
	}

	slog.Debug("Published results", "container", p.container, "blob", name, "bytes", len(data))
	return name, nil
}
