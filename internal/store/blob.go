package store

import (
	"context"
	"time"
)

// BlobStore stores opaque binary objects (publication images) and addresses
// them by URL. Implementations must be safe for concurrent use.
type BlobStore interface {
	// Put stores data and returns the public URL of the new object.
	Put(ctx context.Context, data []byte, contentType string) (string, error)

	// Delete removes the object behind url.
	// Returns ErrBlobNotFound if no such object exists.
	Delete(ctx context.Context, url string) error
}

// PresignedUpload is a short-lived URL a client can PUT a file to directly.
type PresignedUpload struct {
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Presigner is implemented by blob stores that can issue direct-upload URLs.
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string) (*PresignedUpload, error)
}
