package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/store"
)

// CommentService manages comments on publications.
type CommentService interface {
	AddComment(ctx context.Context, publicationID, userID uuid.UUID, text string) (*domain.Comment, error)
	ListComments(ctx context.Context, publicationID uuid.UUID) ([]domain.Comment, error)
	// ListAllComments returns a page of comments across publications, newest first.
	ListAllComments(ctx context.Context, page domain.Page) ([]domain.Comment, error)
	// DeleteComment removes a comment. Only its author or the publication owner may do so.
	DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error
}

type commentServiceImpl struct {
	comments     store.CommentStore
	publications store.PublicationStore
	logger       *slog.Logger
}

// NewCommentService creates a CommentService.
func NewCommentService(
	comments store.CommentStore,
	publications store.PublicationStore,
	logger *slog.Logger,
) CommentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &commentServiceImpl{
		comments:     comments,
		publications: publications,
		logger:       logger.With(slog.String("component", "comment_service")),
	}
}

func (s *commentServiceImpl) AddComment(
	ctx context.Context,
	publicationID, userID uuid.UUID,
	text string,
) (*domain.Comment, error) {
	comment, err := domain.NewComment(publicationID, userID, sanitizeText(text))
	if err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("comment added",
		slog.String("comment_id", comment.ID.String()),
		slog.String("publication_id", publicationID.String()))
	return comment, nil
}

func (s *commentServiceImpl) ListComments(ctx context.Context, publicationID uuid.UUID) ([]domain.Comment, error) {
	if _, err := s.publications.GetByID(ctx, publicationID); err != nil {
		return nil, err
	}
	return s.comments.ListByPublication(ctx, publicationID)
}

func (s *commentServiceImpl) ListAllComments(ctx context.Context, page domain.Page) ([]domain.Comment, error) {
	return s.comments.List(ctx, page.Normalize())
}

func (s *commentServiceImpl) DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		pub, err := s.publications.GetByID(ctx, comment.PublicationID)
		if err != nil {
			return err
		}
		if !pub.IsOwnedBy(userID) {
			return ErrNotOwned
		}
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("comment deleted",
		slog.String("comment_id", commentID.String()),
		slog.String("user_id", userID.String()))
	return nil
}
