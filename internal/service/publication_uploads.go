package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/redact"
	"github.com/phrazzld/autolist-api/internal/store"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// UploadFile is an image that already passed size and content checks.
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// uploadAll stores files concurrently and returns their URLs in input order.
// If any put fails, the blobs stored so far are deleted and a *StorageError is returned.
func (s *publicationServiceImpl) uploadAll(ctx context.Context, files []UploadFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.uploadConcurrency)

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			url, err := s.blobs.Put(gctx, f.Data, f.ContentType)
			if err != nil {
				return &StorageError{Filename: f.Filename, Err: err}
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("image upload failed",
			slog.String("error", redact.Error(err)),
			slog.Int("files", len(files)))
		s.deleteBlobs(ctx, lo.Compact(urls), "upload aborted")
		return nil, err
	}
	return urls, nil
}

// deleteBlobs removes blobs best-effort. Failures are logged and swallowed.
// Cancellation of ctx does not stop the cleanup.
func (s *publicationServiceImpl) deleteBlobs(ctx context.Context, urls []string, reason string) {
	purgeBlobs(ctx, s.blobs, logger.FromContextOrDefault(ctx, s.logger), urls, reason)
}

func purgeBlobs(ctx context.Context, blobs store.BlobStore, log *slog.Logger, urls []string, reason string) {
	if blobs == nil || len(urls) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	for _, url := range urls {
		err := blobs.Delete(ctx, url)
		switch {
		case err == nil:
		case errors.Is(err, store.ErrBlobNotFound):
			log.Debug("blob already gone",
				slog.String("url", url),
				slog.String("reason", reason))
		default:
			log.Warn("failed to delete blob",
				slog.String("url", url),
				slog.String("reason", reason),
				slog.String("error", redact.Error(err)))
		}
	}
}
