package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
)

// CategoryStore defines the interface for category persistence.
type CategoryStore interface {
	// Create returns ErrCategoryExists on a duplicate name.
	Create(ctx context.Context, category *domain.Category) error
	// GetByID returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	// List returns every category ordered by name.
	List(ctx context.Context) ([]domain.Category, error)
	// Update returns ErrCategoryNotFound or ErrCategoryExists.
	Update(ctx context.Context, category *domain.Category) error
	// Delete returns ErrCategoryNotFound, or ErrInUse while publications reference it.
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx *sql.Tx) CategoryStore
}

// BrandStore defines the interface for brand persistence.
type BrandStore interface {
	// Create returns ErrBrandExists on a duplicate name.
	Create(ctx context.Context, brand *domain.Brand) error
	// GetByID returns ErrBrandNotFound if the brand does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error)
	// List returns every brand ordered by name.
	List(ctx context.Context) ([]domain.Brand, error)
	// Update returns ErrBrandNotFound or ErrBrandExists.
	Update(ctx context.Context, brand *domain.Brand) error
	// Delete returns ErrBrandNotFound, or ErrInUse while publications reference it.
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx *sql.Tx) BrandStore
}
