package service

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/media"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/store"
	"github.com/samber/lo"
)

// DirectUploadPrefix is the key prefix of objects uploaded through signed URLs.
const DirectUploadPrefix = "uploads/"

const maxUploadNameLength = 100

// UploadService issues signed URLs for uploading images straight to the blob store.
type UploadService interface {
	// SignedUploadURL returns store.ErrPresignUnsupported when the blob store cannot presign.
	SignedUploadURL(ctx context.Context, userID uuid.UUID, filename string) (*store.PresignedUpload, error)
}

type uploadServiceImpl struct {
	presigner store.Presigner
	logger    *slog.Logger
}

// NewUploadService creates an UploadService. presigner may be nil.
func NewUploadService(presigner store.Presigner, logger *slog.Logger) UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &uploadServiceImpl{
		presigner: presigner,
		logger:    logger.With(slog.String("component", "upload_service")),
	}
}

func (s *uploadServiceImpl) SignedUploadURL(
	ctx context.Context,
	userID uuid.UUID,
	filename string,
) (*store.PresignedUpload, error) {
	if s.presigner == nil {
		return nil, store.ErrPresignUnsupported
	}

	name := SanitizeFilename(filename)
	if name == "" {
		return nil, domain.NewValidationError("filename", "cannot be empty", domain.ErrValidation)
	}
	contentType, ok := imageTypeForName(name)
	if !ok {
		return nil, domain.NewValidationError("filename", "must name an image file", media.ErrUnsupportedImageType)
	}

	key := DirectUploadPrefix + uuid.NewString() + "-" + name
	upload, err := s.presigner.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, NewServiceError("upload", "presign", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("issued signed upload url",
		slog.String("user_id", userID.String()),
		slog.String("key", key))
	return upload, nil
}

// SanitizeFilename reduces a client-supplied file name to a safe object key segment:
// the base name, lowercased, with every character outside [a-z0-9._-] replaced by '-'.
func SanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, strings.ToLower(base))
	clean = strings.Trim(clean, ".-")
	if len(clean) > maxUploadNameLength {
		clean = clean[len(clean)-maxUploadNameLength:]
	}
	return clean
}

func imageTypeForName(name string) (string, bool) {
	ext := path.Ext(name)
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	if ext == ".tif" {
		ext = ".tiff"
	}
	contentType, ok := lo.FindKey(media.AllowedImageTypes, ext)
	return contentType, ok
}
