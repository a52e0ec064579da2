package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/store"
	"github.com/samber/lo"
)

// PostgresImageStore implements store.ImageStore.
// The (publication_id, position) unique constraint is deferred, so callers may
// rewrite positions row by row inside a transaction.
type PostgresImageStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresImageStore creates a new PostgreSQL implementation of the ImageStore interface.
func NewPostgresImageStore(db store.DBTX, logger *slog.Logger) *PostgresImageStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresImageStore{
		db:     db,
		logger: logger.With(slog.String("component", "image_store")),
	}
}

var _ store.ImageStore = (*PostgresImageStore)(nil)

// WithTx implements store.ImageStore.WithTx
func (s *PostgresImageStore) WithTx(tx *sql.Tx) store.ImageStore {
	return &PostgresImageStore{db: tx, logger: s.logger}
}

// ListByPublication implements store.ImageStore.ListByPublication
func (s *PostgresImageStore) ListByPublication(ctx context.Context, publicationID uuid.UUID) (domain.ImageSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, publication_id, url, position, created_at
		FROM images
		WHERE publication_id = $1
		ORDER BY position ASC
	`, publicationID)
	if err != nil {
		log.Error("failed to list images",
			slog.String("error", err.Error()),
			slog.String("publication_id", publicationID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanImages(rows)
}

func scanImages(rows *sql.Rows) (domain.ImageSet, error) {
	images := domain.ImageSet{}
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.PublicationID, &img.URL, &img.Position, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

// CreateMultiple implements store.ImageStore.CreateMultiple
// All rows are inserted with a single statement.
func (s *PostgresImageStore) CreateMultiple(ctx context.Context, images []domain.Image) error {
	if len(images) == 0 {
		return nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	values := make([]string, 0, len(images))
	args := make([]any, 0, len(images)*5)
	for i, img := range images {
		base := i * 5
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5))
		args = append(args, img.ID, img.PublicationID, img.URL, img.Position, img.CreatedAt)
	}

	query := `INSERT INTO images (id, publication_id, url, position, created_at) VALUES ` +
		strings.Join(values, ", ")
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert images",
			slog.String("error", err.Error()),
			slog.Int("count", len(images)))
		return MapError(err)
	}

	log.Debug("images inserted", slog.Int("count", len(images)))
	return nil
}

func idList(ids []uuid.UUID, offset int) (string, []any) {
	placeholders := lo.Map(ids, func(_ uuid.UUID, i int) string {
		return fmt.Sprintf("$%d", i+offset)
	})
	args := lo.Map(ids, func(id uuid.UUID, _ int) any { return id })
	return strings.Join(placeholders, ", "), args
}

// DeleteByIDs implements store.ImageStore.DeleteByIDs
func (s *PostgresImageStore) DeleteByIDs(ctx context.Context, publicationID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	in, idArgs := idList(ids, 2)
	args := append([]any{publicationID}, idArgs...)
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM images WHERE publication_id = $1 AND id IN (`+in+`)`, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete images",
			slog.String("error", err.Error()),
			slog.String("publication_id", publicationID.String()))
		return MapError(err)
	}
	return nil
}

// DeleteByPublication implements store.ImageStore.DeleteByPublication
func (s *PostgresImageStore) DeleteByPublication(ctx context.Context, publicationID uuid.UUID) (domain.ImageSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		DELETE FROM images
		WHERE publication_id = $1
		RETURNING id, publication_id, url, position, created_at
	`, publicationID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete publication images",
			slog.String("error", err.Error()),
			slog.String("publication_id", publicationID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanImages(rows)
}

// UpdatePositions implements store.ImageStore.UpdatePositions
func (s *PostgresImageStore) UpdatePositions(ctx context.Context, images domain.ImageSet) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, img := range images {
		result, err := s.db.ExecContext(ctx,
			`UPDATE images SET position = $1 WHERE id = $2 AND publication_id = $3`,
			img.Position, img.ID, img.PublicationID)
		if err != nil {
			log.Error("failed to update image position",
				slog.String("error", err.Error()),
				slog.String("image_id", img.ID.String()))
			return MapError(err)
		}
		if err := CheckRowsAffected(result, store.ErrImageNotFound); err != nil {
			return err
		}
	}
	return nil
}

// ListURLsByOwner implements store.ImageStore.ListURLsByOwner
func (s *PostgresImageStore) ListURLsByOwner(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.url
		FROM images i
		JOIN publications p ON p.id = i.publication_id
		WHERE p.user_id = $1
		ORDER BY i.publication_id, i.position
	`, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list owner image urls",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}
