package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/store"
)

// LikeService records likes on publications and comments.
type LikeService interface {
	// Like returns store.ErrLikeExists when the user already likes the target.
	Like(ctx context.Context, userID uuid.UUID, target domain.LikeTarget) (*domain.Like, error)
	// Unlike returns store.ErrLikeNotFound when there is nothing to remove.
	Unlike(ctx context.Context, userID uuid.UUID, target domain.LikeTarget) error
	Count(ctx context.Context, target domain.LikeTarget) (int, error)
	// ListLikes returns a page of all likes, newest first.
	ListLikes(ctx context.Context, page domain.Page) ([]domain.Like, error)
}

type likeServiceImpl struct {
	likes  store.LikeStore
	logger *slog.Logger
}

// NewLikeService creates a LikeService.
func NewLikeService(likes store.LikeStore, logger *slog.Logger) LikeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &likeServiceImpl{
		likes:  likes,
		logger: logger.With(slog.String("component", "like_service")),
	}
}

func (s *likeServiceImpl) Like(ctx context.Context, userID uuid.UUID, target domain.LikeTarget) (*domain.Like, error) {
	like, err := domain.NewLike(userID, target)
	if err != nil {
		return nil, err
	}
	if err := s.likes.Create(ctx, like); err != nil {
		return nil, err
	}
	return like, nil
}

func (s *likeServiceImpl) Unlike(ctx context.Context, userID uuid.UUID, target domain.LikeTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}
	return s.likes.Delete(ctx, userID, target)
}

func (s *likeServiceImpl) Count(ctx context.Context, target domain.LikeTarget) (int, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	return s.likes.Count(ctx, target)
}

func (s *likeServiceImpl) ListLikes(ctx context.Context, page domain.Page) ([]domain.Like, error) {
	return s.likes.List(ctx, page.Normalize())
}
