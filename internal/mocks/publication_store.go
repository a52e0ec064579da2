package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/store"
)

// MockPublicationStore implements store.PublicationStore in memory.
type MockPublicationStore struct {
	CreateFn           func(ctx context.Context, pub *domain.Publication) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Publication, error)
	GetByIDForUpdateFn func(ctx context.Context, id uuid.UUID) (*domain.Publication, error)
	UpdateFn           func(ctx context.Context, pub *domain.Publication) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error
	ListFn             func(ctx context.Context, filter domain.PublicationFilter) ([]domain.PublicationSummary, error)

	mu           sync.Mutex
	Publications map[uuid.UUID]*domain.Publication
	// Usernames resolves owner names for GetDetail.
	Usernames map[uuid.UUID]string
	// LikeCounts feeds PublicationDetail.LikeCount.
	LikeCounts map[uuid.UUID]int
	// LockCount counts GetByIDForUpdate calls.
	LockCount int
	// LastFilter is the filter passed to the most recent List call.
	LastFilter domain.PublicationFilter
}

var _ store.PublicationStore = (*MockPublicationStore)(nil)

// NewMockPublicationStore creates a store holding copies of the given publications.
func NewMockPublicationStore(pubs ...*domain.Publication) *MockPublicationStore {
	m := &MockPublicationStore{
		Publications: make(map[uuid.UUID]*domain.Publication),
		Usernames:    make(map[uuid.UUID]string),
		LikeCounts:   make(map[uuid.UUID]int),
	}
	for _, p := range pubs {
		copied := *p
		m.Publications[p.ID] = &copied
	}
	return m
}

// Get returns a copy of the stored publication, or nil.
func (m *MockPublicationStore) Get(id uuid.UUID) *domain.Publication {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Publications[id]
	if !ok {
		return nil
	}
	copied := *p
	return &copied
}

// Create implements the store.PublicationStore interface
func (m *MockPublicationStore) Create(ctx context.Context, pub *domain.Publication) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, pub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *pub
	m.Publications[pub.ID] = &copied
	return nil
}

// GetByID implements the store.PublicationStore interface
func (m *MockPublicationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Publication, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if p := m.Get(id); p != nil {
		return p, nil
	}
	return nil, store.ErrPublicationNotFound
}

// GetByIDForUpdate implements the store.PublicationStore interface
func (m *MockPublicationStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Publication, error) {
	m.mu.Lock()
	m.LockCount++
	m.mu.Unlock()

	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	if p := m.Get(id); p != nil {
		return p, nil
	}
	return nil, store.ErrPublicationNotFound
}

// Update implements the store.PublicationStore interface
func (m *MockPublicationStore) Update(ctx context.Context, pub *domain.Publication) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, pub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Publications[pub.ID]; !ok {
		return store.ErrPublicationNotFound
	}
	copied := *pub
	m.Publications[pub.ID] = &copied
	return nil
}

// Delete implements the store.PublicationStore interface
func (m *MockPublicationStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Publications[id]; !ok {
		return store.ErrPublicationNotFound
	}
	delete(m.Publications, id)
	return nil
}

// GetDetail implements the store.PublicationStore interface.
// Images are not resolved; the service fills them in.
func (m *MockPublicationStore) GetDetail(ctx context.Context, id uuid.UUID) (*domain.PublicationDetail, error) {
	p := m.Get(id)
	if p == nil {
		return nil, store.ErrPublicationNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.PublicationDetail{
		Publication: *p,
		Username:    m.Usernames[p.UserID],
		LikeCount:   m.LikeCounts[p.ID],
	}, nil
}

// List implements the store.PublicationStore interface
func (m *MockPublicationStore) List(
	ctx context.Context,
	filter domain.PublicationFilter,
) ([]domain.PublicationSummary, error) {
	m.mu.Lock()
	m.LastFilter = filter
	m.mu.Unlock()

	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var items []domain.PublicationSummary
	for _, p := range m.Publications {
		if filter.BrandID != nil && p.BrandID != *filter.BrandID {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Year != nil && p.VehicleYear != *filter.Year {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Title)) {
			continue
		}
		items = append(items, domain.PublicationSummary{Publication: *p})
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].PublishedAt.Equal(items[j].PublishedAt) {
			return items[i].PublishedAt.After(items[j].PublishedAt)
		}
		return items[i].ID.String() < items[j].ID.String()
	})

	if filter.Skip >= len(items) {
		return []domain.PublicationSummary{}, nil
	}
	items = items[filter.Skip:]
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}
	return items, nil
}

// WithTx implements the store.PublicationStore interface. The mock ignores the transaction.
func (m *MockPublicationStore) WithTx(*sql.Tx) store.PublicationStore {
	return m
}
