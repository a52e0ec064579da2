package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/store"
)

// PostgresPublicationStore implements the store.PublicationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPublicationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPublicationStore creates a new PostgreSQL implementation of the PublicationStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresPublicationStore(db store.DBTX, logger *slog.Logger) *PostgresPublicationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPublicationStore{
		db:     db,
		logger: logger.With(slog.String("component", "publication_store")),
	}
}

// Ensure PostgresPublicationStore implements store.PublicationStore interface
var _ store.PublicationStore = (*PostgresPublicationStore)(nil)

// WithTx implements store.PublicationStore.WithTx
func (s *PostgresPublicationStore) WithTx(tx *sql.Tx) store.PublicationStore {
	return &PostgresPublicationStore{db: tx, logger: s.logger}
}

const publicationColumns = `p.id, p.user_id, p.title, p.short_description, p.description, p.detail,
	p.url, p.vehicle_year, p.category_id, p.brand_id, p.published_at, p.updated_at, p.version`

func publicationTargets(p *domain.Publication) []any {
	return []any{
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.ShortDescription,
		&p.Description,
		&p.Detail,
		&p.URL,
		&p.VehicleYear,
		&p.CategoryID,
		&p.BrandID,
		&p.PublishedAt,
		&p.UpdatedAt,
		&p.Version,
	}
}

// Create implements store.PublicationStore.Create
func (s *PostgresPublicationStore) Create(ctx context.Context, pub *domain.Publication) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := pub.Validate(); err != nil {
		log.Warn("publication validation failed during create",
			slog.String("error", err.Error()),
			slog.String("publication_id", pub.ID.String()))
		return err
	}

	query := `
		INSERT INTO publications (id, user_id, title, short_description, description, detail,
			url, vehicle_year, category_id, brand_id, published_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		pub.ID,
		pub.UserID,
		pub.Title,
		pub.ShortDescription,
		pub.Description,
		pub.Detail,
		pub.URL,
		pub.VehicleYear,
		pub.CategoryID,
		pub.BrandID,
		pub.PublishedAt,
		pub.UpdatedAt,
		pub.Version,
	)
	if err != nil {
		log.Error("failed to create publication",
			slog.String("error", err.Error()),
			slog.String("publication_id", pub.ID.String()))
		return MapError(err)
	}

	log.Debug("publication created", slog.String("publication_id", pub.ID.String()))
	return nil
}

func (s *PostgresPublicationStore) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Publication, error) {
	query := `SELECT ` + publicationColumns + ` FROM publications p WHERE p.id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var pub domain.Publication
	if err := s.db.QueryRowContext(ctx, query, id).Scan(publicationTargets(&pub)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPublicationNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get publication",
			slog.String("error", err.Error()),
			slog.String("publication_id", id.String()),
			slog.Bool("for_update", forUpdate))
		return nil, err
	}
	return &pub, nil
}

// GetByID implements store.PublicationStore.GetByID
func (s *PostgresPublicationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Publication, error) {
	return s.get(ctx, id, false)
}

// GetByIDForUpdate implements store.PublicationStore.GetByIDForUpdate
func (s *PostgresPublicationStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Publication, error) {
	return s.get(ctx, id, true)
}

// Update implements store.PublicationStore.Update
func (s *PostgresPublicationStore) Update(ctx context.Context, pub *domain.Publication) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := pub.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE publications
		SET title = $1, short_description = $2, description = $3, detail = $4, url = $5,
			vehicle_year = $6, category_id = $7, brand_id = $8, updated_at = $9, version = $10
		WHERE id = $11
	`
	result, err := s.db.ExecContext(ctx, query,
		pub.Title,
		pub.ShortDescription,
		pub.Description,
		pub.Detail,
		pub.URL,
		pub.VehicleYear,
		pub.CategoryID,
		pub.BrandID,
		pub.UpdatedAt,
		pub.Version,
		pub.ID,
	)
	if err != nil {
		log.Error("failed to update publication",
			slog.String("error", err.Error()),
			slog.String("publication_id", pub.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrPublicationNotFound)
}

// Delete implements store.PublicationStore.Delete
func (s *PostgresPublicationStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM publications WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete publication",
			slog.String("error", err.Error()),
			slog.String("publication_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrPublicationNotFound)
}

// GetDetail implements store.PublicationStore.GetDetail
func (s *PostgresPublicationStore) GetDetail(ctx context.Context, id uuid.UUID) (*domain.PublicationDetail, error) {
	query := `
		SELECT ` + publicationColumns + `, u.username, c.name, b.name,
			COALESCE((SELECT i.url FROM images i WHERE i.publication_id = p.id AND i.position = 1), ''),
			(SELECT COUNT(*) FROM likes l WHERE l.publication_id = p.id)
		FROM publications p
		JOIN users u ON u.id = p.user_id
		JOIN categories c ON c.id = p.category_id
		JOIN brands b ON b.id = p.brand_id
		WHERE p.id = $1
	`

	var d domain.PublicationDetail
	targets := append(publicationTargets(&d.Publication),
		&d.Username, &d.CategoryName, &d.BrandName, &d.CoverURL, &d.LikeCount)

	if err := s.db.QueryRowContext(ctx, query, id).Scan(targets...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPublicationNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get publication detail",
			slog.String("error", err.Error()),
			slog.String("publication_id", id.String()))
		return nil, err
	}
	return &d, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildListQuery renders the listing query for a normalized filter.
func buildListQuery(filter domain.PublicationFilter) (string, []any) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.BrandID != nil {
		where = append(where, "p.brand_id = "+arg(*filter.BrandID))
	}
	if filter.CategoryID != nil {
		where = append(where, "p.category_id = "+arg(*filter.CategoryID))
	}
	if filter.Year != nil {
		where = append(where, "p.vehicle_year = "+arg(*filter.Year))
	}
	if filter.Title != "" {
		where = append(where, "p.title ILIKE '%' || "+arg(likeEscaper.Replace(filter.Title))+" || '%'")
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + publicationColumns + `, c.name, b.name,
		COALESCE((SELECT i.url FROM images i WHERE i.publication_id = p.id AND i.position = 1), '')
		FROM publications p
		JOIN categories c ON c.id = p.category_id
		JOIN brands b ON b.id = p.brand_id`)
	if len(where) > 0 {
		b.WriteString("\n\t\tWHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString("\n\t\tORDER BY p.published_at DESC, p.id ASC")
	b.WriteString("\n\t\tLIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Skip))

	return b.String(), args
}

// List implements store.PublicationStore.List
func (s *PostgresPublicationStore) List(
	ctx context.Context,
	filter domain.PublicationFilter,
) ([]domain.PublicationSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildListQuery(filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list publications", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	items := []domain.PublicationSummary{}
	for rows.Next() {
		var item domain.PublicationSummary
		targets := append(publicationTargets(&item.Publication),
			&item.CategoryName, &item.BrandName, &item.CoverURL)
		if err := rows.Scan(targets...); err != nil {
			log.Error("failed to scan publication row", slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed publications",
		slog.Int("count", len(items)),
		slog.Int("skip", filter.Skip),
		slog.Int("limit", filter.Limit))
	return items, nil
}
