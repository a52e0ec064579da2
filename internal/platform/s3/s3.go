// Package s3 stores publication images in an S3-compatible bucket and issues
// presigned direct-upload URLs.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/config"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/redact"
	"github.com/phrazzld/autolist-api/internal/store"
)

// ObjectPrefix is the key prefix for images uploaded through the API.
const ObjectPrefix = "publications/"

// BlobStore implements store.BlobStore and store.Presigner on top of S3.
type BlobStore struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	publicBase *url.URL
	presignTTL time.Duration
	logger     *slog.Logger
}

var (
	_ store.BlobStore = (*BlobStore)(nil)
	_ store.Presigner = (*BlobStore)(nil)
)

// New builds an S3 client from cfg and wraps it in a BlobStore.
func New(ctx context.Context, cfg config.S3Config, logger *slog.Logger) (*BlobStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithBaseEndpoint(cfg.Endpoint))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewWithClient(client, cfg.Bucket, cfg.PublicBaseURL, cfg.PresignTTL(), logger)
}

// NewWithClient wraps an existing client. publicBaseURL is the prefix under
// which objects are publicly readable.
func NewWithClient(
	client *s3.Client,
	bucket, publicBaseURL string,
	presignTTL time.Duration,
	logger *slog.Logger,
) (*BlobStore, error) {
	if client == nil {
		return nil, errors.New("s3 client cannot be nil")
	}
	if bucket == "" {
		return nil, errors.New("bucket cannot be empty")
	}
	base, err := url.Parse(strings.TrimRight(publicBaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid public base URL %q", publicBaseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}

	return &BlobStore{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     bucket,
		publicBase: base,
		presignTTL: presignTTL,
		logger:     logger.With(slog.String("component", "s3_blob_store")),
	}, nil
}

func (b *BlobStore) publicURL(key string) string {
	u := *b.publicBase
	u.Path = strings.TrimRight(u.Path, "/") + "/" + key
	return u.String()
}

// keyFromURL returns the object key for a URL produced by this store.
func (b *BlobStore) keyFromURL(raw string) (string, bool) {
	prefix := strings.TrimRight(b.publicBase.String(), "/") + "/"
	if !strings.HasPrefix(raw, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(raw, prefix)
	return key, key != ""
}

// Put uploads data under a fresh key and returns its public URL.
func (b *BlobStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	log := logger.FromContextOrDefault(ctx, b.logger)

	key := ObjectPrefix + uuid.NewString()
	if mt := mimetype.Lookup(contentType); mt != nil {
		key += mt.Extension()
	}

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Error("failed to upload object",
			slog.String("key", key),
			slog.String("error", redact.Error(err)))
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	log.Debug("object uploaded", slog.String("key", key), slog.Int("size", len(data)))
	return b.publicURL(key), nil
}

// Delete removes the object behind rawURL. It returns store.ErrBlobNotFound when
// the URL is not one of ours or the object does not exist.
func (b *BlobStore) Delete(ctx context.Context, rawURL string) error {
	key, ok := b.keyFromURL(rawURL)
	if !ok {
		return fmt.Errorf("%w: %s is outside the bucket", store.ErrBlobNotFound, rawURL)
	}

	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return fmt.Errorf("%w: %s", store.ErrBlobNotFound, key)
		}
		return fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	if _, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}

	logger.FromContextOrDefault(ctx, b.logger).Debug("object deleted", slog.String("key", key))
	return nil
}

// PresignUpload returns a URL the client can PUT the object to directly.
func (b *BlobStore) PresignUpload(ctx context.Context, key, contentType string) (*store.PresignedUpload, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := b.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(b.presignTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}

	return &store.PresignedUpload{
		UploadURL: req.URL,
		PublicURL: b.publicURL(key),
		ExpiresAt: time.Now().UTC().Add(b.presignTTL),
	}, nil
}
