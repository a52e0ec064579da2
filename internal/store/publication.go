package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
)

// PublicationStore defines the interface for publication data persistence.
type PublicationStore interface {
	// Create inserts a new publication.
	// Returns ErrInvalidEntity if the category, brand or owner does not exist.
	Create(ctx context.Context, pub *domain.Publication) error

	// GetByID retrieves a publication by its ID.
	// Returns ErrPublicationNotFound if the publication does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Publication, error)

	// GetByIDForUpdate retrieves a publication and locks its row until the
	// surrounding transaction ends. It must be called on a store bound with WithTx.
	// Returns ErrPublicationNotFound if the publication does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Publication, error)

	// Update persists the editable fields, updated_at and version.
	// Returns ErrPublicationNotFound if the publication does not exist.
	Update(ctx context.Context, pub *domain.Publication) error

	// Delete removes a publication. Images, comments and likes cascade.
	// Returns ErrPublicationNotFound if the publication does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetDetail retrieves the joined public view of a publication without images.
	// Returns ErrPublicationNotFound if the publication does not exist.
	GetDetail(ctx context.Context, id uuid.UUID) (*domain.PublicationDetail, error)

	// List returns one page of publications matching the filter, newest first.
	// The filter must already be normalized.
	List(ctx context.Context, filter domain.PublicationFilter) ([]domain.PublicationSummary, error)

	// WithTx returns a new PublicationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PublicationStore
}

// ImageStore defines the interface for publication image persistence.
// Multi-row mutations must run inside a transaction so the position
// constraint is checked against the final state.
type ImageStore interface {
	// ListByPublication returns the images of a publication ordered by position.
	ListByPublication(ctx context.Context, publicationID uuid.UUID) (domain.ImageSet, error)

	// CreateMultiple inserts images.
	CreateMultiple(ctx context.Context, images []domain.Image) error

	// DeleteByIDs removes the given images of a publication.
	DeleteByIDs(ctx context.Context, publicationID uuid.UUID, ids []uuid.UUID) error

	// DeleteByPublication removes every image of a publication and returns the removed rows.
	DeleteByPublication(ctx context.Context, publicationID uuid.UUID) (domain.ImageSet, error)

	// UpdatePositions persists the position of every image in the set.
	UpdatePositions(ctx context.Context, images domain.ImageSet) error

	// ListURLsByOwner returns the URLs of every image on the user's publications.
	ListURLsByOwner(ctx context.Context, userID uuid.UUID) ([]string, error)

	// WithTx returns a new ImageStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ImageStore
}
