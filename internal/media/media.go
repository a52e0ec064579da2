// Package media reads uploaded image parts with a size cap and checks their
// content type by sniffing the bytes.
package media

import (
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/phrazzld/autolist-api/internal/domain"
)

var (
	// ErrImageTooLarge is wrapped by the validation error for oversized parts.
	ErrImageTooLarge = errors.New("image exceeds the upload size limit")

	// ErrUnsupportedImageType is wrapped by the validation error for non-image parts.
	ErrUnsupportedImageType = errors.New("unsupported image type")

	// ErrEmptyImage is wrapped by the validation error for zero-byte parts.
	ErrEmptyImage = errors.New("image is empty")
)

// AllowedImageTypes maps accepted MIME types to their file extension.
// Formats that can carry scripts (svg) are left out.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/tiff": ".tiff",
	"image/webp": ".webp",
}

// DetectImageType sniffs data and returns its MIME type if it is an allowed image.
func DetectImageType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.NewValidationError("images", "file is empty", ErrEmptyImage)
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if _, ok := AllowedImageTypes[m.String()]; ok {
			return m.String(), nil
		}
	}
	return "", domain.NewValidationError("images",
		fmt.Sprintf("%s is not an accepted image type", mt.String()), ErrUnsupportedImageType)
}

// Upload is an image part that passed the size and type checks.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReadImage reads at most maxBytes from r and validates the content type.
func ReadImage(r io.Reader, filename string, maxBytes int64) (Upload, error) {
	data, err := io.ReadAll(NewMaxSizeReader(r, maxBytes))
	if err != nil {
		var limitErr *ReachLimitError
		if errors.As(err, &limitErr) {
			return Upload{}, domain.NewValidationError("images",
				fmt.Sprintf("%s: %s", filename, limitErr.Error()), ErrImageTooLarge)
		}
		return Upload{}, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	contentType, err := DetectImageType(data)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Filename: filename, ContentType: contentType, Data: data}, nil
}
