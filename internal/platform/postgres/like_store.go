package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/store"
)

// PostgresLikeStore implements store.LikeStore.
type PostgresLikeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLikeStore creates a PostgresLikeStore.
func NewPostgresLikeStore(db store.DBTX, logger *slog.Logger) *PostgresLikeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLikeStore{
		db:     db,
		logger: logger.With(slog.String("component", "like_store")),
	}
}

var _ store.LikeStore = (*PostgresLikeStore)(nil)

// targetColumn returns the column and value that identify the like target.
func targetColumn(target domain.LikeTarget) (string, uuid.UUID, error) {
	if err := target.Validate(); err != nil {
		return "", uuid.Nil, err
	}
	if target.PublicationID != nil {
		return "publication_id", *target.PublicationID, nil
	}
	return "comment_id", *target.CommentID, nil
}

func targetNotFound(column string) error {
	if column == "publication_id" {
		return store.ErrPublicationNotFound
	}
	return store.ErrCommentNotFound
}

// Create implements store.LikeStore.Create
// Returns the target's not-found error when it does not exist.
func (s *PostgresLikeStore) Create(ctx context.Context, like *domain.Like) error {
	column, targetID, err := targetColumn(like.Target)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO likes (id, user_id, %s, created_at) VALUES ($1, $2, $3, $4)`, column),
		like.ID, like.UserID, targetID, like.CreatedAt)
	if err != nil {
		switch {
		case IsUniqueViolation(err):
			return MapUniqueViolation(err, store.ErrLikeExists)
		case IsForeignKeyViolation(err):
			return fmt.Errorf("%w: %v", targetNotFound(column), err)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create like",
			slog.String("error", err.Error()),
			slog.String("target", column))
		return MapError(err)
	}
	return nil
}

// Delete implements store.LikeStore.Delete
func (s *PostgresLikeStore) Delete(ctx context.Context, userID uuid.UUID, target domain.LikeTarget) error {
	column, targetID, err := targetColumn(target)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM likes WHERE user_id = $1 AND %s = $2`, column),
		userID, targetID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete like",
			slog.String("error", err.Error()),
			slog.String("target", column))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrLikeNotFound)
}

// Count implements store.LikeStore.Count
func (s *PostgresLikeStore) Count(ctx context.Context, target domain.LikeTarget) (int, error) {
	column, targetID, err := targetColumn(target)
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM likes WHERE %s = $1`, column), targetID).Scan(&count)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count likes",
			slog.String("error", err.Error()),
			slog.String("target", column))
		return 0, err
	}
	return count, nil
}

// List implements store.LikeStore.List
func (s *PostgresLikeStore) List(ctx context.Context, page domain.Page) ([]domain.Like, error) {
	page = page.Normalize()
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, publication_id, comment_id, created_at
		FROM likes
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, page.Limit, page.Skip)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list likes",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	likes := []domain.Like{}
	for rows.Next() {
		var like domain.Like
		var publicationID, commentID uuid.NullUUID
		if err := rows.Scan(&like.ID, &like.UserID, &publicationID, &commentID, &like.CreatedAt); err != nil {
			return nil, err
		}
		if publicationID.Valid {
			like.Target.PublicationID = &publicationID.UUID
		}
		if commentID.Valid {
			like.Target.CommentID = &commentID.UUID
		}
		likes = append(likes, like)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return likes, nil
}
