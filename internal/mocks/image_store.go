package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/store"
)

// MockImageStore implements store.ImageStore in memory, keyed by publication.
type MockImageStore struct {
	ListByPublicationFn   func(ctx context.Context, publicationID uuid.UUID) (domain.ImageSet, error)
	CreateMultipleFn      func(ctx context.Context, images []domain.Image) error
	DeleteByIDsFn         func(ctx context.Context, publicationID uuid.UUID, ids []uuid.UUID) error
	DeleteByPublicationFn func(ctx context.Context, publicationID uuid.UUID) (domain.ImageSet, error)
	UpdatePositionsFn     func(ctx context.Context, images domain.ImageSet) error
	ListURLsByOwnerFn     func(ctx context.Context, userID uuid.UUID) ([]string, error)

	mu     sync.Mutex
	Images map[uuid.UUID]map[uuid.UUID]domain.Image
}

var _ store.ImageStore = (*MockImageStore)(nil)

// NewMockImageStore creates a store holding the given images.
func NewMockImageStore(images ...domain.Image) *MockImageStore {
	m := &MockImageStore{Images: make(map[uuid.UUID]map[uuid.UUID]domain.Image)}
	for _, img := range images {
		m.put(img)
	}
	return m
}

func (m *MockImageStore) put(img domain.Image) {
	set, ok := m.Images[img.PublicationID]
	if !ok {
		set = make(map[uuid.UUID]domain.Image)
		m.Images[img.PublicationID] = set
	}
	set[img.ID] = img
}

// Snapshot returns the stored images of a publication ordered by position.
func (m *MockImageStore) Snapshot(publicationID uuid.UUID) domain.ImageSet {
	m.mu.Lock()
	defer m.mu.Unlock()

	set := make(domain.ImageSet, 0, len(m.Images[publicationID]))
	for _, img := range m.Images[publicationID] {
		set = append(set, img)
	}
	sort.Slice(set, func(i, j int) bool { return set[i].Position < set[j].Position })
	return set
}

// ListByPublication implements the store.ImageStore interface
func (m *MockImageStore) ListByPublication(ctx context.Context, publicationID uuid.UUID) (domain.ImageSet, error) {
	if m.ListByPublicationFn != nil {
		return m.ListByPublicationFn(ctx, publicationID)
	}
	return m.Snapshot(publicationID), nil
}

// CreateMultiple implements the store.ImageStore interface
func (m *MockImageStore) CreateMultiple(ctx context.Context, images []domain.Image) error {
	if m.CreateMultipleFn != nil {
		return m.CreateMultipleFn(ctx, images)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, img := range images {
		m.put(img)
	}
	return nil
}

// DeleteByIDs implements the store.ImageStore interface
func (m *MockImageStore) DeleteByIDs(ctx context.Context, publicationID uuid.UUID, ids []uuid.UUID) error {
	if m.DeleteByIDsFn != nil {
		return m.DeleteByIDsFn(ctx, publicationID, ids)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.Images[publicationID], id)
	}
	return nil
}

// DeleteByPublication implements the store.ImageStore interface
func (m *MockImageStore) DeleteByPublication(
	ctx context.Context,
	publicationID uuid.UUID,
) (domain.ImageSet, error) {
	if m.DeleteByPublicationFn != nil {
		return m.DeleteByPublicationFn(ctx, publicationID)
	}
	removed := m.Snapshot(publicationID)
	m.mu.Lock()
	delete(m.Images, publicationID)
	m.mu.Unlock()
	return removed, nil
}

// UpdatePositions implements the store.ImageStore interface
func (m *MockImageStore) UpdatePositions(ctx context.Context, images domain.ImageSet) error {
	if m.UpdatePositionsFn != nil {
		return m.UpdatePositionsFn(ctx, images)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, img := range images {
		stored, ok := m.Images[img.PublicationID][img.ID]
		if !ok {
			return store.ErrImageNotFound
		}
		stored.Position = img.Position
		m.Images[img.PublicationID][img.ID] = stored
	}
	return nil
}

// ListURLsByOwner implements the store.ImageStore interface. The mock does not
// track owners, so without ListURLsByOwnerFn it returns nothing.
func (m *MockImageStore) ListURLsByOwner(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if m.ListURLsByOwnerFn != nil {
		return m.ListURLsByOwnerFn(ctx, userID)
	}
	return nil, nil
}

// WithTx implements the store.ImageStore interface. The mock ignores the transaction.
func (m *MockImageStore) WithTx(*sql.Tx) store.ImageStore {
	return m
}
