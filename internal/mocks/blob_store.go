package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phrazzld/autolist-api/internal/store"
)

// MockBlobStore implements store.BlobStore in memory. It is safe for concurrent use
// and records deletes and the highest number of concurrent Put calls.
type MockBlobStore struct {
	PutFn    func(ctx context.Context, data []byte, contentType string) (string, error)
	DeleteFn func(ctx context.Context, url string) error

	// PutDelay makes every Put block for the given duration.
	PutDelay time.Duration
	BaseURL  string

	mu          sync.Mutex
	objects     map[string][]byte
	deleted     []string
	seq         int
	inFlight    int
	maxInFlight int
}

var _ store.BlobStore = (*MockBlobStore)(nil)

// NewMockBlobStore creates an empty MockBlobStore.
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		BaseURL: "https://blobs.test/publications",
		objects: make(map[string][]byte),
	}
}

// Put implements the store.BlobStore interface
func (m *MockBlobStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	m.inFlight++
	m.maxInFlight = max(m.maxInFlight, m.inFlight)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.PutDelay > 0 {
		select {
		case <-time.After(m.PutDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.PutFn != nil {
		return m.PutFn(ctx, data, contentType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	url := fmt.Sprintf("%s/blob-%d", m.BaseURL, m.seq)
	m.objects[url] = data
	return url, nil
}

// Delete implements the store.BlobStore interface
func (m *MockBlobStore) Delete(ctx context.Context, url string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, url)
	m.mu.Unlock()

	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, url)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[url]; !ok {
		return store.ErrBlobNotFound
	}
	delete(m.objects, url)
	return nil
}

// Seed stores an object under url as if it had been uploaded earlier.
func (m *MockBlobStore) Seed(url string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[url] = data
}

// Has reports whether an object exists under url.
func (m *MockBlobStore) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[url]
	return ok
}

// Count returns the number of stored objects.
func (m *MockBlobStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Deleted returns every URL passed to Delete, in call order.
func (m *MockBlobStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// MaxInFlight returns the highest number of Put calls observed running at once.
func (m *MockBlobStore) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

// MockPresigner implements store.Presigner for testing.
type MockPresigner struct {
	PresignUploadFn func(ctx context.Context, key, contentType string) (*store.PresignedUpload, error)

	LastKey         string
	LastContentType string
}

var _ store.Presigner = (*MockPresigner)(nil)

// PresignUpload implements the store.Presigner interface
func (m *MockPresigner) PresignUpload(ctx context.Context, key, contentType string) (*store.PresignedUpload, error) {
	m.LastKey = key
	m.LastContentType = contentType
	if m.PresignUploadFn != nil {
		return m.PresignUploadFn(ctx, key, contentType)
	}
	return &store.PresignedUpload{
		UploadURL: "https://blobs.test/" + key + "?X-Amz-Signature=test",
		PublicURL: "https://blobs.test/" + key,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}
