package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/store"
)

// MockCommentStore implements store.CommentStore in memory.
type MockCommentStore struct {
	CreateFn func(ctx context.Context, comment *domain.Comment) error

	mu       sync.Mutex
	Comments map[uuid.UUID]domain.Comment
}

var _ store.CommentStore = (*MockCommentStore)(nil)

// NewMockCommentStore creates a store holding the given comments.
func NewMockCommentStore(comments ...*domain.Comment) *MockCommentStore {
	m := &MockCommentStore{Comments: make(map[uuid.UUID]domain.Comment)}
	for _, c := range comments {
		m.Comments[c.ID] = *c
	}
	return m
}

// Create implements the store.CommentStore interface
func (m *MockCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, comment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Comments[comment.ID] = *comment
	return nil
}

// GetByID implements the store.CommentStore interface
func (m *MockCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Comments[id]
	if !ok {
		return nil, store.ErrCommentNotFound
	}
	return &c, nil
}

// ListByPublication implements the store.CommentStore interface
func (m *MockCommentStore) ListByPublication(ctx context.Context, publicationID uuid.UUID) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Comment{}
	for _, c := range m.Comments {
		if c.PublicationID == publicationID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// List implements the store.CommentStore interface
func (m *MockCommentStore) List(ctx context.Context, page domain.Page) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Comment, 0, len(m.Comments))
	for _, c := range m.Comments {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return window(out, page), nil
}

// Delete implements the store.CommentStore interface
func (m *MockCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Comments[id]; !ok {
		return store.ErrCommentNotFound
	}
	delete(m.Comments, id)
	return nil
}

// MockLikeStore implements store.LikeStore in memory.
type MockLikeStore struct {
	CreateFn func(ctx context.Context, like *domain.Like) error

	mu    sync.Mutex
	Likes []domain.Like
}

var _ store.LikeStore = (*MockLikeStore)(nil)

func sameTarget(a, b domain.LikeTarget) bool {
	eq := func(x, y *uuid.UUID) bool {
		if x == nil || y == nil {
			return x == y
		}
		return *x == *y
	}
	return eq(a.PublicationID, b.PublicationID) && eq(a.CommentID, b.CommentID)
}

// Create implements the store.LikeStore interface
func (m *MockLikeStore) Create(ctx context.Context, like *domain.Like) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, like)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.Likes {
		if l.UserID == like.UserID && sameTarget(l.Target, like.Target) {
			return store.ErrLikeExists
		}
	}
	m.Likes = append(m.Likes, *like)
	return nil
}

// Delete implements the store.LikeStore interface
func (m *MockLikeStore) Delete(ctx context.Context, userID uuid.UUID, target domain.LikeTarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.Likes {
		if l.UserID == userID && sameTarget(l.Target, target) {
			m.Likes = append(m.Likes[:i], m.Likes[i+1:]...)
			return nil
		}
	}
	return store.ErrLikeNotFound
}

// List implements the store.LikeStore interface
func (m *MockLikeStore) List(ctx context.Context, page domain.Page) ([]domain.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Like, len(m.Likes))
	copy(out, m.Likes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return window(out, page), nil
}

// window returns the slice of items selected by page.
func window[T any](items []T, page domain.Page) []T {
	page = page.Normalize()
	if page.Skip >= len(items) {
		return []T{}
	}
	items = items[page.Skip:]
	if len(items) > page.Limit {
		items = items[:page.Limit]
	}
	return items
}

// Count implements the store.LikeStore interface
func (m *MockLikeStore) Count(ctx context.Context, target domain.LikeTarget) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Likes {
		if sameTarget(l.Target, target) {
			n++
		}
	}
	return n, nil
}
