package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/phrazzld/autolist-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is a minimal path-style S3 endpoint backed by a map.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deletes []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Path is /<bucket>/<key>.
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] != "listings" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	key := parts[1]

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		f.types[key] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		f.deletes = append(f.deletes, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T) (*BlobStore, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := s3.NewFromConfig(aws.Config{
		Region:      "auto",
		Credentials: credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
	}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(srv.URL)
		o.UsePathStyle = true
	})

	bs, err := NewWithClient(client, "listings", "https://cdn.example.com/media/", 10*time.Minute, nil)
	require.NoError(t, err)
	return bs, fake
}

func TestBlobStore_PutAndDelete(t *testing.T) {
	bs, fake := newTestStore(t)
	ctx := context.Background()

	url, err := bs.Put(ctx, []byte("\x89PNG\r\n\x1a\n"), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/media/publications/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	key, ok := bs.keyFromURL(url)
	require.True(t, ok)
	fake.mu.Lock()
	assert.Equal(t, "image/png", fake.types[key])
	fake.mu.Unlock()

	require.NoError(t, bs.Delete(ctx, url))
	assert.Equal(t, []string{key}, fake.deletes)

	err = bs.Delete(ctx, url)
	assert.ErrorIs(t, err, store.ErrBlobNotFound)
}

func TestBlobStore_DeleteForeignURL(t *testing.T) {
	bs, fake := newTestStore(t)

	err := bs.Delete(context.Background(), "https://elsewhere.example.com/x.jpg")
	assert.ErrorIs(t, err, store.ErrBlobNotFound)
	assert.Empty(t, fake.deletes)
}

func TestBlobStore_PresignUpload(t *testing.T) {
	bs, _ := newTestStore(t)

	before := time.Now().UTC()
	up, err := bs.PresignUpload(context.Background(), "uploads/abc-car.jpg", "image/jpeg")
	require.NoError(t, err)

	assert.Contains(t, up.UploadURL, "/listings/uploads/abc-car.jpg")
	assert.Contains(t, up.UploadURL, "X-Amz-Signature=")
	assert.Equal(t, "https://cdn.example.com/media/uploads/abc-car.jpg", up.PublicURL)
	assert.WithinDuration(t, before.Add(10*time.Minute), up.ExpiresAt, 5*time.Second)
}

func TestNewWithClient_Validation(t *testing.T) {
	client := s3.New(s3.Options{Region: "auto"})

	_, err := NewWithClient(nil, "b", "https://cdn.example.com", time.Minute, nil)
	assert.Error(t, err)
	_, err = NewWithClient(client, "", "https://cdn.example.com", time.Minute, nil)
	assert.Error(t, err)
	_, err = NewWithClient(client, "b", "not a url", time.Minute, nil)
	assert.Error(t, err)
}
