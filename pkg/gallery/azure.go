package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/JaimeStill/oagrade/pkg/lifecycle"
)

type azure struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// newAzure validates credentials and creates the Azure client but does not
// contact the service until Start is called.
func newAzure(cfg *Config, logger *slog.Logger) (*azure, error) {
	client, err := newBlobClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create gallery client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "gallery", "provider", ProviderAzure),
	}, nil
}

func newBlobClient(cfg *Config) (*azblob.Client, error) {
	if cfg.ConnectionString != "" {
		return azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve azure credential: %w", err)
	}
	return azblob.NewClient(cfg.AccountURL, cred, nil)
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting gallery", "container", a.container)

	lc.OnStartup(func() error {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			a.logger.Error("gallery container initialization failed", "error", err)
			return mapAzureError(err)
		}

		a.logger.Info("gallery container ready", "container", a.container)
		return nil
	})

	return nil
}

func (a *azure) Save(ctx context.Context, key string, data []byte) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	ct := contentType(key, data)
	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &ct,
		},
	}

	if _, err := a.client.UploadBuffer(ctx, a.container, key, data, opts); err != nil {
		return "", fmt.Errorf("upload blob %s: %w", key, mapAzureError(err))
	}

	location, err := url.JoinPath(a.client.URL(), a.container, key)
	if err != nil {
		return "", fmt.Errorf("%w: build location: %w", ErrWriteFailed, err)
	}

	a.logger.Info("artifact saved", "location", location, "bytes", len(data))
	return location, nil
}

func mapAzureError(err error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrWriteFailed, err)
}
