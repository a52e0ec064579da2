package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
)

// CommentStore defines the interface for comment persistence.
type CommentStore interface {
	Create(ctx context.Context, comment *domain.Comment) error
	// GetByID returns ErrCommentNotFound if the comment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	// ListByPublication returns comments oldest first with author usernames filled in.
	ListByPublication(ctx context.Context, publicationID uuid.UUID) ([]domain.Comment, error)
	// List returns a page of all comments, newest first, with author usernames.
	List(ctx context.Context, page domain.Page) ([]domain.Comment, error)
	// Delete returns ErrCommentNotFound if the comment does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// LikeStore defines the interface for like persistence.
type LikeStore interface {
	// Create returns ErrLikeExists when the user already likes the target.
	Create(ctx context.Context, like *domain.Like) error
	// Delete returns ErrLikeNotFound when there is nothing to remove.
	Delete(ctx context.Context, userID uuid.UUID, target domain.LikeTarget) error
	Count(ctx context.Context, target domain.LikeTarget) (int, error)
	// List returns a page of all likes, newest first.
	List(ctx context.Context, page domain.Page) ([]domain.Like, error)
}
