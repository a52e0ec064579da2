package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/store"
)

// CatalogService manages the categories and brands publications refer to.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	RenameCategory(ctx context.Context, id uuid.UUID, name string) (*domain.Category, error)
	// DeleteCategory fails with store.ErrInUse while publications reference the category.
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListBrands(ctx context.Context) ([]domain.Brand, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*domain.Brand, error)
	CreateBrand(ctx context.Context, name string) (*domain.Brand, error)
	RenameBrand(ctx context.Context, id uuid.UUID, name string) (*domain.Brand, error)
	// DeleteBrand fails with store.ErrInUse while publications reference the brand.
	DeleteBrand(ctx context.Context, id uuid.UUID) error
}

type catalogServiceImpl struct {
	categories store.CategoryStore
	brands     store.BrandStore
	logger     *slog.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(categories store.CategoryStore, brands store.BrandStore, logger *slog.Logger) CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogServiceImpl{
		categories: categories,
		brands:     brands,
		logger:     logger.With(slog.String("component", "catalog_service")),
	}
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *catalogServiceImpl) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *catalogServiceImpl) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	c, err := domain.NewCategory(sanitizeText(name))
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("category created",
		slog.String("category_id", c.ID.String()),
		slog.String("name", c.Name))
	return c, nil
}

func (s *catalogServiceImpl) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Rename(sanitizeText(name)); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *catalogServiceImpl) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("category deleted",
		slog.String("category_id", id.String()))
	return nil
}

func (s *catalogServiceImpl) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return s.brands.List(ctx)
}

func (s *catalogServiceImpl) GetBrand(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	return s.brands.GetByID(ctx, id)
}

func (s *catalogServiceImpl) CreateBrand(ctx context.Context, name string) (*domain.Brand, error) {
	b, err := domain.NewBrand(sanitizeText(name))
	if err != nil {
		return nil, err
	}
	if err := s.brands.Create(ctx, b); err != nil {
		return nil, err
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("brand created",
		slog.String("brand_id", b.ID.String()),
		slog.String("name", b.Name))
	return b, nil
}

func (s *catalogServiceImpl) RenameBrand(ctx context.Context, id uuid.UUID, name string) (*domain.Brand, error) {
	b, err := s.brands.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Rename(sanitizeText(name)); err != nil {
		return nil, err
	}
	if err := s.brands.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *catalogServiceImpl) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	if err := s.brands.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("brand deleted",
		slog.String("brand_id", id.String()))
	return nil
}
