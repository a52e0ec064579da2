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

// MockCategoryStore implements store.CategoryStore in memory.
type MockCategoryStore struct {
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	mu         sync.Mutex
	Categories map[uuid.UUID]domain.Category
	// InUse marks categories that publications still reference.
	InUse map[uuid.UUID]bool
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)

// NewMockCategoryStore creates a store holding the given categories.
func NewMockCategoryStore(categories ...*domain.Category) *MockCategoryStore {
	m := &MockCategoryStore{
		Categories: make(map[uuid.UUID]domain.Category),
		InUse:      make(map[uuid.UUID]bool),
	}
	for _, c := range categories {
		m.Categories[c.ID] = *c
	}
	return m
}

func (m *MockCategoryStore) nameTaken(name string, except uuid.UUID) bool {
	for id, c := range m.Categories {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

// Create implements the store.CategoryStore interface
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTaken(category.Name, category.ID) {
		return store.ErrCategoryExists
	}
	m.Categories[category.ID] = *category
	return nil
}

// GetByID implements the store.CategoryStore interface
func (m *MockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Categories[id]
	if !ok {
		return nil, store.ErrCategoryNotFound
	}
	return &c, nil
}

// List implements the store.CategoryStore interface
func (m *MockCategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update implements the store.CategoryStore interface
func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Categories[category.ID]; !ok {
		return store.ErrCategoryNotFound
	}
	if m.nameTaken(category.Name, category.ID) {
		return store.ErrCategoryExists
	}
	m.Categories[category.ID] = *category
	return nil
}

// Delete implements the store.CategoryStore interface
func (m *MockCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Categories[id]; !ok {
		return store.ErrCategoryNotFound
	}
	if m.InUse[id] {
		return store.ErrInUse
	}
	delete(m.Categories, id)
	return nil
}

// WithTx implements the store.CategoryStore interface. The mock ignores the transaction.
func (m *MockCategoryStore) WithTx(*sql.Tx) store.CategoryStore {
	return m
}

// MockBrandStore implements store.BrandStore in memory.
type MockBrandStore struct {
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Brand, error)

	mu     sync.Mutex
	Brands map[uuid.UUID]domain.Brand
	// InUse marks brands that publications still reference.
	InUse map[uuid.UUID]bool
}

var _ store.BrandStore = (*MockBrandStore)(nil)

// NewMockBrandStore creates a store holding the given brands.
func NewMockBrandStore(brands ...*domain.Brand) *MockBrandStore {
	m := &MockBrandStore{
		Brands: make(map[uuid.UUID]domain.Brand),
		InUse:  make(map[uuid.UUID]bool),
	}
	for _, b := range brands {
		m.Brands[b.ID] = *b
	}
	return m
}

func (m *MockBrandStore) nameTaken(name string, except uuid.UUID) bool {
	for id, b := range m.Brands {
		if id != except && b.Name == name {
			return true
		}
	}
	return false
}

// Create implements the store.BrandStore interface
func (m *MockBrandStore) Create(ctx context.Context, brand *domain.Brand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTaken(brand.Name, brand.ID) {
		return store.ErrBrandExists
	}
	m.Brands[brand.ID] = *brand
	return nil
}

// GetByID implements the store.BrandStore interface
func (m *MockBrandStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Brands[id]
	if !ok {
		return nil, store.ErrBrandNotFound
	}
	return &b, nil
}

// List implements the store.BrandStore interface
func (m *MockBrandStore) List(ctx context.Context) ([]domain.Brand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Brand, 0, len(m.Brands))
	for _, b := range m.Brands {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update implements the store.BrandStore interface
func (m *MockBrandStore) Update(ctx context.Context, brand *domain.Brand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Brands[brand.ID]; !ok {
		return store.ErrBrandNotFound
	}
	if m.nameTaken(brand.Name, brand.ID) {
		return store.ErrBrandExists
	}
	m.Brands[brand.ID] = *brand
	return nil
}

// Delete implements the store.BrandStore interface
func (m *MockBrandStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Brands[id]; !ok {
		return store.ErrBrandNotFound
	}
	if m.InUse[id] {
		return store.ErrInUse
	}
	delete(m.Brands, id)
	return nil
}

// WithTx implements the store.BrandStore interface. The mock ignores the transaction.
func (m *MockBrandStore) WithTx(*sql.Tx) store.BrandStore {
	return m
}
