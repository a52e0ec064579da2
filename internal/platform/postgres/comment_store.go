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

// PostgresCommentStore implements store.CommentStore.
type PostgresCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCommentStore creates a PostgresCommentStore.
func NewPostgresCommentStore(db store.DBTX, logger *slog.Logger) *PostgresCommentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCommentStore{
		db:     db,
		logger: logger.With(slog.String("component", "comment_store")),
	}
}

var _ store.CommentStore = (*PostgresCommentStore)(nil)

// Create implements store.CommentStore.Create
// Returns store.ErrPublicationNotFound if the publication does not exist.
func (s *PostgresCommentStore) Create(ctx context.Context, c *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := c.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, publication_id, user_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.PublicationID, c.UserID, c.Text, c.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("comment references missing publication or user",
				slog.String("publication_id", c.PublicationID.String()))
			return fmt.Errorf("%w: %v", store.ErrPublicationNotFound, err)
		}
		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", c.ID.String()))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.CommentStore.GetByID
func (s *PostgresCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var c domain.Comment
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.publication_id, c.user_id, u.username, c.text, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`, id).Scan(&c.ID, &c.PublicationID, &c.UserID, &c.Username, &c.Text, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCommentNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", id.String()))
		return nil, err
	}
	return &c, nil
}

// ListByPublication implements store.CommentStore.ListByPublication
func (s *PostgresCommentStore) ListByPublication(ctx context.Context, publicationID uuid.UUID) ([]domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.publication_id, c.user_id, u.username, c.text, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.publication_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`, publicationID)
	if err != nil {
		log.Error("failed to list comments",
			slog.String("error", err.Error()),
			slog.String("publication_id", publicationID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PublicationID, &c.UserID, &c.Username, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete implements store.CommentStore.Delete
func (s *PostgresCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCommentNotFound)
}

// List implements store.CommentStore.List
func (s *PostgresCommentStore) List(ctx context.Context, page domain.Page) ([]domain.Comment, error) {
	page = page.Normalize()
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.publication_id, c.user_id, u.username, c.text, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at DESC, c.id
		LIMIT $1 OFFSET $2
	`, page.Limit, page.Skip)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list all comments",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PublicationID, &c.UserID, &c.Username, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}
