package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/redact"
	"github.com/phrazzld/autolist-api/internal/store"
)

// DefaultUploadConcurrency bounds parallel blob puts when none is configured.
const DefaultUploadConcurrency = 4

// EditRequest describes one edit of a publication.
type EditRequest struct {
	PublicationID uuid.UUID
	UserID        uuid.UUID
	Input         domain.PublicationInput
	// KeepIDs are the stored images to keep; everything else is dropped.
	KeepIDs map[uuid.UUID]struct{}
	Files   []UploadFile
	Cover   domain.CoverChoice
	// ExpectedVersion enables the optimistic-lock check when greater than zero.
	ExpectedVersion int
}

// PublicationPage is one page of a listing.
type PublicationPage struct {
	Items []domain.PublicationSummary `json:"items"`
	Skip  int                         `json:"skip"`
	Limit int                         `json:"limit"`
}

// PublicationService manages publications and their image sets.
type PublicationService interface {
	// CreatePublication uploads the files and stores the publication with its images.
	CreatePublication(
		ctx context.Context,
		ownerID uuid.UUID,
		input domain.PublicationInput,
		files []UploadFile,
	) (*domain.PublicationDetail, error)

	// EditPublication replaces the metadata and reconciles the image set.
	EditPublication(ctx context.Context, req EditRequest) (*domain.PublicationEditDetail, error)

	// DeletePublication removes the publication and its images.
	DeletePublication(ctx context.Context, publicationID, userID uuid.UUID) error

	// ReorderImages moves the named images to the requested positions.
	ReorderImages(
		ctx context.Context,
		publicationID, userID uuid.UUID,
		positions map[uuid.UUID]int,
		expectedVersion int,
	) (*domain.PublicationEditDetail, error)

	// GetPublication returns the public view of a publication.
	GetPublication(ctx context.Context, id uuid.UUID) (*domain.PublicationDetail, error)

	// GetPublicationForEdit returns the owner's editing view.
	GetPublicationForEdit(ctx context.Context, id, userID uuid.UUID) (*domain.PublicationEditDetail, error)

	// ListPublications returns a filtered page of publications, newest first.
	ListPublications(ctx context.Context, filter domain.PublicationFilter) (*PublicationPage, error)
}

type publicationServiceImpl struct {
	db                *sql.DB
	publications      store.PublicationStore
	images            store.ImageStore
	categories        store.CategoryStore
	brands            store.BrandStore
	blobs             store.BlobStore
	uploadConcurrency int
	logger            *slog.Logger
}

var _ PublicationService = (*publicationServiceImpl)(nil)

// NewPublicationService creates a PublicationService.
// It returns an error if any of the required dependencies are nil.
func NewPublicationService(
	db *sql.DB,
	publications store.PublicationStore,
	images store.ImageStore,
	categories store.CategoryStore,
	brands store.BrandStore,
	blobs store.BlobStore,
	uploadConcurrency int,
	logger *slog.Logger,
) (PublicationService, error) {
	deps := map[string]bool{
		"db":           db == nil,
		"publications": publications == nil,
		"images":       images == nil,
		"categories":   categories == nil,
		"brands":       brands == nil,
		"blobs":        blobs == nil,
	}
	for name, missing := range deps {
		if missing {
			return nil, domain.NewValidationError(name, "cannot be nil", domain.ErrValidation)
		}
	}
	if uploadConcurrency <= 0 {
		uploadConcurrency = DefaultUploadConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &publicationServiceImpl{
		db:                db,
		publications:      publications,
		images:            images,
		categories:        categories,
		brands:            brands,
		blobs:             blobs,
		uploadConcurrency: uploadConcurrency,
		logger:            logger.With(slog.String("component", "publication_service")),
	}, nil
}

// checkCatalog verifies that the referenced category and brand exist.
func (s *publicationServiceImpl) checkCatalog(ctx context.Context, categoryID, brandID uuid.UUID) error {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return err
	}
	if _, err := s.brands.GetByID(ctx, brandID); err != nil {
		return err
	}
	return nil
}

func versionConflict(expected, current int) error {
	return fmt.Errorf("%w: expected version %d, current version %d", ErrVersionConflict, expected, current)
}

// CreatePublication implements PublicationService.CreatePublication
func (s *publicationServiceImpl) CreatePublication(
	ctx context.Context,
	ownerID uuid.UUID,
	input domain.PublicationInput,
	files []UploadFile,
) (*domain.PublicationDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pub, err := domain.NewPublication(ownerID, sanitizePublicationInput(input))
	if err != nil {
		return nil, err
	}
	if err := s.checkCatalog(ctx, pub.CategoryID, pub.BrandID); err != nil {
		return nil, err
	}

	urls, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, err
	}
	images := domain.InitializeImageSet(pub.ID, urls)

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.publications.WithTx(tx).Create(ctx, pub); err != nil {
			return err
		}
		return s.images.WithTx(tx).CreateMultiple(ctx, images)
	})
	if err != nil {
		log.Error("failed to save publication",
			slog.String("error", redact.Error(err)),
			slog.String("publication_id", pub.ID.String()))
		s.deleteBlobs(ctx, urls, "create rolled back")
		return nil, NewPublicationServiceError("create", "failed to save publication", err)
	}

	log.Info("publication created",
		slog.String("publication_id", pub.ID.String()),
		slog.String("user_id", ownerID.String()),
		slog.Int("images", len(images)))
	return s.GetPublication(ctx, pub.ID)
}

// EditPublication implements PublicationService.EditPublication
//
// Ownership is checked before anything is uploaded. Inside the transaction the
// publication row is locked and ownership and version are checked again, so a
// concurrent edit either waits or fails with ErrVersionConflict. Blobs uploaded
// by a failed edit are deleted; blobs of dropped images are deleted only after commit.
func (s *publicationServiceImpl) EditPublication(
	ctx context.Context,
	req EditRequest,
) (*domain.PublicationEditDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("publication_id", req.PublicationID.String()))

	current, err := s.publications.GetByID(ctx, req.PublicationID)
	if err != nil {
		return nil, err
	}
	if !current.IsOwnedBy(req.UserID) {
		log.Warn("edit rejected: not the owner", slog.String("user_id", req.UserID.String()))
		return nil, ErrNotOwned
	}

	input := sanitizePublicationInput(req.Input)
	candidate := *current
	if err := candidate.ApplyInput(input); err != nil {
		return nil, err
	}
	if err := s.checkCatalog(ctx, input.CategoryID, input.BrandID); err != nil {
		return nil, err
	}

	urls, err := s.uploadAll(ctx, req.Files)
	if err != nil {
		return nil, err
	}

	var dropped domain.ImageSet
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		pubs := s.publications.WithTx(tx)
		images := s.images.WithTx(tx)

		pub, err := pubs.GetByIDForUpdate(ctx, req.PublicationID)
		if err != nil {
			return err
		}
		if !pub.IsOwnedBy(req.UserID) {
			return ErrNotOwned
		}
		if req.ExpectedVersion > 0 && pub.Version != req.ExpectedVersion {
			return versionConflict(req.ExpectedVersion, pub.Version)
		}

		if err := pub.ApplyInput(input); err != nil {
			return err
		}
		if err := pubs.Update(ctx, pub); err != nil {
			return err
		}

		before, err := images.ListByPublication(ctx, pub.ID)
		if err != nil {
			return err
		}
		after := domain.ApplyEdit(before, pub.ID, req.KeepIDs, urls, req.Cover)
		added := before.Added(after)

		dropped = before.Dropped(after)
		if err := images.DeleteByIDs(ctx, pub.ID, dropped.IDs()); err != nil {
			return err
		}
		if err := images.CreateMultiple(ctx, added); err != nil {
			return err
		}
		return images.UpdatePositions(ctx, after.Dropped(added))
	})
	if err != nil {
		if !errors.Is(err, ErrVersionConflict) && !errors.Is(err, ErrNotOwned) {
			log.Error("failed to edit publication", slog.String("error", redact.Error(err)))
		}
		s.deleteBlobs(ctx, urls, "edit rolled back")
		return nil, NewPublicationServiceError("edit", "failed to save publication", err)
	}

	log.Info("publication edited",
		slog.Int("images_added", len(urls)),
		slog.Int("images_dropped", len(dropped)))
	s.deleteBlobs(ctx, dropped.URLs(), "image dropped by edit")

	return s.GetPublicationForEdit(ctx, req.PublicationID, req.UserID)
}

// DeletePublication implements PublicationService.DeletePublication
func (s *publicationServiceImpl) DeletePublication(ctx context.Context, publicationID, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var removed domain.ImageSet
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		pubs := s.publications.WithTx(tx)

		pub, err := pubs.GetByIDForUpdate(ctx, publicationID)
		if err != nil {
			return err
		}
		if !pub.IsOwnedBy(userID) {
			return ErrNotOwned
		}

		removed, err = s.images.WithTx(tx).DeleteByPublication(ctx, publicationID)
		if err != nil {
			return err
		}
		return pubs.Delete(ctx, publicationID)
	})
	if err != nil {
		return NewPublicationServiceError("delete", "failed to delete publication", err)
	}

	log.Info("publication deleted",
		slog.String("publication_id", publicationID.String()),
		slog.Int("images", len(removed)))
	s.deleteBlobs(ctx, removed.URLs(), "publication deleted")
	return nil
}

// ReorderImages implements PublicationService.ReorderImages
func (s *publicationServiceImpl) ReorderImages(
	ctx context.Context,
	publicationID, userID uuid.UUID,
	positions map[uuid.UUID]int,
	expectedVersion int,
) (*domain.PublicationEditDetail, error) {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		pubs := s.publications.WithTx(tx)
		images := s.images.WithTx(tx)

		pub, err := pubs.GetByIDForUpdate(ctx, publicationID)
		if err != nil {
			return err
		}
		if !pub.IsOwnedBy(userID) {
			return ErrNotOwned
		}
		if expectedVersion > 0 && pub.Version != expectedVersion {
			return versionConflict(expectedVersion, pub.Version)
		}

		current, err := images.ListByPublication(ctx, publicationID)
		if err != nil {
			return err
		}
		next, err := domain.Reorder(current, positions)
		if err != nil {
			return err
		}
		if err := images.UpdatePositions(ctx, next); err != nil {
			return err
		}

		pub.Touch()
		return pubs.Update(ctx, pub)
	})
	if err != nil {
		return nil, NewPublicationServiceError("reorder", "failed to reorder images", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("images reordered",
		slog.String("publication_id", publicationID.String()))
	return s.GetPublicationForEdit(ctx, publicationID, userID)
}

func (s *publicationServiceImpl) loadDetail(
	ctx context.Context,
	id uuid.UUID,
) (*domain.PublicationDetail, domain.ImageSet, error) {
	detail, err := s.publications.GetDetail(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	images, err := s.images.ListByPublication(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return detail, images, nil
}

// GetPublication implements PublicationService.GetPublication
func (s *publicationServiceImpl) GetPublication(ctx context.Context, id uuid.UUID) (*domain.PublicationDetail, error) {
	detail, images, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.NewPublicationEditDetail(*detail, images).PublicationDetail, nil
}

// GetPublicationForEdit implements PublicationService.GetPublicationForEdit
func (s *publicationServiceImpl) GetPublicationForEdit(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.PublicationEditDetail, error) {
	detail, images, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !detail.IsOwnedBy(userID) {
		return nil, ErrNotOwned
	}
	return domain.NewPublicationEditDetail(*detail, images), nil
}

// ListPublications implements PublicationService.ListPublications
func (s *publicationServiceImpl) ListPublications(
	ctx context.Context,
	filter domain.PublicationFilter,
) (*PublicationPage, error) {
	filter = filter.Normalize()
	items, err := s.publications.List(ctx, filter)
	if err != nil {
		return nil, NewPublicationServiceError("list", "failed to list publications", err)
	}
	return &PublicationPage{Items: items, Skip: filter.Skip, Limit: filter.Limit}, nil
}
