package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/store"
)

// catalogTable runs the name-only CRUD shared by categories and brands.
type catalogTable struct {
	db       store.DBTX
	logger   *slog.Logger
	table    string
	notFound error
	exists   error
}

func (t catalogTable) create(ctx context.Context, id uuid.UUID, name string) error {
	_, err := t.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, name) VALUES ($1, $2)`, t.table), id, name)
	if err != nil {
		if IsUniqueViolation(err) {
			return MapUniqueViolation(err, t.exists)
		}
		t.log(ctx).Error("failed to insert catalog entry",
			slog.String("error", err.Error()),
			slog.String("id", id.String()))
		return MapError(err)
	}
	return nil
}

func (t catalogTable) get(ctx context.Context, id uuid.UUID) (uuid.UUID, string, error) {
	var gotID uuid.UUID
	var name string
	err := t.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id, name FROM %s WHERE id = $1`, t.table), id).Scan(&gotID, &name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, "", t.notFound
		}
		t.log(ctx).Error("failed to get catalog entry",
			slog.String("error", err.Error()),
			slog.String("id", id.String()))
		return uuid.Nil, "", err
	}
	return gotID, name, nil
}

func (t catalogTable) list(ctx context.Context, each func(id uuid.UUID, name string)) error {
	rows, err := t.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name ASC, id ASC`, t.table))
	if err != nil {
		t.log(ctx).Error("failed to list catalog entries", slog.String("error", err.Error()))
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		each(id, name)
	}
	return rows.Err()
}

func (t catalogTable) update(ctx context.Context, id uuid.UUID, name string) error {
	result, err := t.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET name = $1 WHERE id = $2`, t.table), name, id)
	if err != nil {
		if IsUniqueViolation(err) {
			return MapUniqueViolation(err, t.exists)
		}
		t.log(ctx).Error("failed to update catalog entry",
			slog.String("error", err.Error()),
			slog.String("id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, t.notFound)
}

func (t catalogTable) delete(ctx context.Context, id uuid.UUID) error {
	result, err := t.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.table), id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s %s has publications", store.ErrInUse, t.table, id)
		}
		t.log(ctx).Error("failed to delete catalog entry",
			slog.String("error", err.Error()),
			slog.String("id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, t.notFound)
}

func (t catalogTable) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, t.logger)
}

// PostgresCategoryStore implements store.CategoryStore.
type PostgresCategoryStore struct {
	t catalogTable
}

// NewPostgresCategoryStore creates a PostgresCategoryStore.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCategoryStore{t: catalogTable{
		db:       db,
		logger:   logger.With(slog.String("component", "category_store")),
		table:    "categories",
		notFound: store.ErrCategoryNotFound,
		exists:   store.ErrCategoryExists,
	}}
}

var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// WithTx implements store.CategoryStore.WithTx
func (s *PostgresCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	t := s.t
	t.db = tx
	return &PostgresCategoryStore{t: t}
}

// Create implements store.CategoryStore.Create
func (s *PostgresCategoryStore) Create(ctx context.Context, c *domain.Category) error {
	return s.t.create(ctx, c.ID, c.Name)
}

// GetByID implements store.CategoryStore.GetByID
func (s *PostgresCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	gotID, name, err := s.t.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Category{ID: gotID, Name: name}, nil
}

// List implements store.CategoryStore.List
func (s *PostgresCategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	categories := []domain.Category{}
	err := s.t.list(ctx, func(id uuid.UUID, name string) {
		categories = append(categories, domain.Category{ID: id, Name: name})
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Update implements store.CategoryStore.Update
func (s *PostgresCategoryStore) Update(ctx context.Context, c *domain.Category) error {
	return s.t.update(ctx, c.ID, c.Name)
}

// Delete implements store.CategoryStore.Delete
func (s *PostgresCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.t.delete(ctx, id)
}

// PostgresBrandStore implements store.BrandStore.
type PostgresBrandStore struct {
	t catalogTable
}

// NewPostgresBrandStore creates a PostgresBrandStore.
func NewPostgresBrandStore(db store.DBTX, logger *slog.Logger) *PostgresBrandStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBrandStore{t: catalogTable{
		db:       db,
		logger:   logger.With(slog.String("component", "brand_store")),
		table:    "brands",
		notFound: store.ErrBrandNotFound,
		exists:   store.ErrBrandExists,
	}}
}

var _ store.BrandStore = (*PostgresBrandStore)(nil)

// WithTx implements store.BrandStore.WithTx
func (s *PostgresBrandStore) WithTx(tx *sql.Tx) store.BrandStore {
	t := s.t
	t.db = tx
	return &PostgresBrandStore{t: t}
}

// Create implements store.BrandStore.Create
func (s *PostgresBrandStore) Create(ctx context.Context, b *domain.Brand) error {
	return s.t.create(ctx, b.ID, b.Name)
}

// GetByID implements store.BrandStore.GetByID
func (s *PostgresBrandStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	gotID, name, err := s.t.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Brand{ID: gotID, Name: name}, nil
}

// List implements store.BrandStore.List
func (s *PostgresBrandStore) List(ctx context.Context) ([]domain.Brand, error) {
	brands := []domain.Brand{}
	err := s.t.list(ctx, func(id uuid.UUID, name string) {
		brands = append(brands, domain.Brand{ID: id, Name: name})
	})
	if err != nil {
		return nil, err
	}
	return brands, nil
}

// Update implements store.BrandStore.Update
func (s *PostgresBrandStore) Update(ctx context.Context, b *domain.Brand) error {
	return s.t.update(ctx, b.ID, b.Name)
}

// Delete implements store.BrandStore.Delete
func (s *PostgresBrandStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.t.delete(ctx, id)
}
