// Package storage archives raw inbound messages to Azure Blob Storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/clickchain/engage/pkg/lifecycle"
)

// System manages message archive operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the archive container.
	Start(lc *lifecycle.Coordinator) error
	// Archive stores a raw message payload under a key derived from its
	// message ID and receipt time.
	Archive(ctx context.Context, messageID string, receivedAt time.Time, payload []byte) error
	// Retrieve returns a stream for the archived message at the given key.
	// The caller must close the reader. Returns ErrNotFound if no such entry exists.
	Retrieve(ctx context.Context, key string) (io.ReadCloser, error)
	// Exists reports whether an archive entry exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

type azure struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// New creates an archive system from the given configuration.
// The Azure client is constructed eagerly but no connection is made
// until Start runs the container initialization hook.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create archive client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "archive"),
	}, nil
}

// ArchiveKey builds the blob key for a message: <yyyy/mm/dd>/<message-id>.eml
// with path-hostile characters in the message ID replaced.
func ArchiveKey(messageID string, receivedAt time.Time) string {
	id := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(messageID)
	return fmt.Sprintf("%s/%s.eml", receivedAt.UTC().Format("2006/01/02"), id)
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting archive system")

	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil {
			if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
				a.logger.Error("archive container initialization failed", "error", err)
				return
			}
		}

		a.logger.Info("archive container ready", "container", a.container)
	})

	return nil
}

func (a *azure) Archive(ctx context.Context, messageID string, receivedAt time.Time, payload []byte) error {
	if messageID == "" {
		return ErrEmptyMessageID
	}

	key := ArchiveKey(messageID, receivedAt)
	contentType := "message/rfc822"

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	_, err := a.client.UploadStream(ctx, a.container, key, bytes.NewReader(payload), opts)
	if err != nil {
		return fmt.Errorf("archive message %s: %w", key, err)
	}

	return nil
}

func (a *azure) Retrieve(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("retrieve archive entry %s: %w", key, err)
	}

	return resp.Body, nil
}

func (a *azure) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	blobClient := a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key)

	_, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check archive entry %s: %w", key, err)
	}

	return true, nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
