// Package localfs stores publication images on a local (or in-memory) filesystem.
// It backs development setups and tests; the files are served by the HTTP
// server under the configured public base URL.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/store"
	"github.com/spf13/afero"
)

// BlobStore implements store.BlobStore on an afero filesystem.
type BlobStore struct {
	fs         afero.Fs
	publicBase string
	logger     *slog.Logger
}

var (
	_ store.BlobStore = (*BlobStore)(nil)
	_ store.Presigner = (*BlobStore)(nil)
)

// New returns a BlobStore rooted at dir on the OS filesystem. The directory is
// created if it does not exist.
func New(dir, publicBaseURL string, logger *slog.Logger) (*BlobStore, error) {
	if dir == "" {
		return nil, errors.New("storage directory cannot be empty")
	}
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return NewWithFs(afero.NewBasePathFs(osFs, dir), publicBaseURL, logger), nil
}

// NewWithFs returns a BlobStore writing to the root of fs.
func NewWithFs(fs afero.Fs, publicBaseURL string, logger *slog.Logger) *BlobStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlobStore{
		fs:         fs,
		publicBase: strings.TrimRight(publicBaseURL, "/"),
		logger:     logger.With(slog.String("component", "local_blob_store")),
	}
}

// Fs exposes the underlying filesystem so the server can serve the files.
func (b *BlobStore) Fs() afero.Fs {
	return b.fs
}

func (b *BlobStore) nameFromURL(rawURL string) (string, bool) {
	prefix := b.publicBase + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	name := path.Clean("/" + strings.TrimPrefix(rawURL, prefix))
	if name == "/" {
		return "", false
	}
	return name, true
}

// Put implements store.BlobStore.Put
func (b *BlobStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	name := uuid.NewString()
	if mt := mimetype.Lookup(contentType); mt != nil {
		name += mt.Extension()
	}

	if err := afero.WriteFile(b.fs, "/"+name, data, 0o644); err != nil {
		logger.FromContextOrDefault(ctx, b.logger).Error("failed to write blob",
			slog.String("name", name),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	return b.publicBase + "/" + name, nil
}

// Delete implements store.BlobStore.Delete
func (b *BlobStore) Delete(ctx context.Context, rawURL string) error {
	name, ok := b.nameFromURL(rawURL)
	if !ok {
		return fmt.Errorf("%w: %s is outside the storage directory", store.ErrBlobNotFound, rawURL)
	}

	if err := b.fs.Remove(name); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", store.ErrBlobNotFound, name)
		}
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}

	logger.FromContextOrDefault(ctx, b.logger).Debug("blob deleted", slog.String("name", name))
	return nil
}

// PresignUpload always fails: the local driver has no direct-upload endpoint.
func (b *BlobStore) PresignUpload(context.Context, string, string) (*store.PresignedUpload, error) {
	return nil, store.ErrPresignUnsupported
}
