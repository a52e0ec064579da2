package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/service"
	"github.com/phrazzld/autolist-api/internal/store"
)

// MockPublicationService implements service.PublicationService for handler tests.
type MockPublicationService struct {
	CreatePublicationFn func(
		ctx context.Context,
		ownerID uuid.UUID,
		input domain.PublicationInput,
		files []service.UploadFile,
	) (*domain.PublicationDetail, error)
	EditPublicationFn       func(ctx context.Context, req service.EditRequest) (*domain.PublicationEditDetail, error)
	DeletePublicationFn     func(ctx context.Context, publicationID, userID uuid.UUID) error
	ReorderImagesFn         func(ctx context.Context, publicationID, userID uuid.UUID, positions map[uuid.UUID]int, expectedVersion int) (*domain.PublicationEditDetail, error)
	GetPublicationFn        func(ctx context.Context, id uuid.UUID) (*domain.PublicationDetail, error)
	GetPublicationForEditFn func(ctx context.Context, id, userID uuid.UUID) (*domain.PublicationEditDetail, error)
	ListPublicationsFn      func(ctx context.Context, filter domain.PublicationFilter) (*service.PublicationPage, error)
}

var _ service.PublicationService = (*MockPublicationService)(nil)

func (m *MockPublicationService) CreatePublication(
	ctx context.Context,
	ownerID uuid.UUID,
	input domain.PublicationInput,
	files []service.UploadFile,
) (*domain.PublicationDetail, error) {
	if m.CreatePublicationFn != nil {
		return m.CreatePublicationFn(ctx, ownerID, input, files)
	}
	return nil, nil
}

func (m *MockPublicationService) EditPublication(
	ctx context.Context,
	req service.EditRequest,
) (*domain.PublicationEditDetail, error) {
	if m.EditPublicationFn != nil {
		return m.EditPublicationFn(ctx, req)
	}
	return nil, nil
}

func (m *MockPublicationService) DeletePublication(ctx context.Context, publicationID, userID uuid.UUID) error {
	if m.DeletePublicationFn != nil {
		return m.DeletePublicationFn(ctx, publicationID, userID)
	}
	return nil
}

func (m *MockPublicationService) ReorderImages(
	ctx context.Context,
	publicationID, userID uuid.UUID,
	positions map[uuid.UUID]int,
	expectedVersion int,
) (*domain.PublicationEditDetail, error) {
	if m.ReorderImagesFn != nil {
		return m.ReorderImagesFn(ctx, publicationID, userID, positions, expectedVersion)
	}
	return nil, nil
}

func (m *MockPublicationService) GetPublication(ctx context.Context, id uuid.UUID) (*domain.PublicationDetail, error) {
	if m.GetPublicationFn != nil {
		return m.GetPublicationFn(ctx, id)
	}
	return nil, nil
}

func (m *MockPublicationService) GetPublicationForEdit(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.PublicationEditDetail, error) {
	if m.GetPublicationForEditFn != nil {
		return m.GetPublicationForEditFn(ctx, id, userID)
	}
	return nil, nil
}

func (m *MockPublicationService) ListPublications(
	ctx context.Context,
	filter domain.PublicationFilter,
) (*service.PublicationPage, error) {
	if m.ListPublicationsFn != nil {
		return m.ListPublicationsFn(ctx, filter)
	}
	return &service.PublicationPage{Items: []domain.PublicationSummary{}}, nil
}

// MockUserService implements service.UserService for handler tests.
type MockUserService struct {
	RegisterFn     func(ctx context.Context, input service.RegisterInput, callerIsAdmin bool) (*domain.User, error)
	GetUserFn      func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	AuthenticateFn func(ctx context.Context, username, password string) (*domain.User, error)
	ListUsersFn    func(ctx context.Context, page domain.Page) ([]domain.User, error)
	UpdateUserFn   func(ctx context.Context, callerID, targetID uuid.UUID, update domain.UserUpdate) (*domain.User, error)
	DeleteUserFn   func(ctx context.Context, callerID, targetID uuid.UUID) error
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Register(
	ctx context.Context,
	input service.RegisterInput,
	callerIsAdmin bool,
) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, input, callerIsAdmin)
	}
	return nil, nil
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, username, password)
	}
	return nil, service.ErrInvalidCredentials
}

func (m *MockUserService) ListUsers(ctx context.Context, page domain.Page) ([]domain.User, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx, page)
	}
	return []domain.User{}, nil
}

func (m *MockUserService) UpdateUser(
	ctx context.Context,
	callerID, targetID uuid.UUID,
	update domain.UserUpdate,
) (*domain.User, error) {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, callerID, targetID, update)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserService) DeleteUser(ctx context.Context, callerID, targetID uuid.UUID) error {
	if m.DeleteUserFn != nil {
		return m.DeleteUserFn(ctx, callerID, targetID)
	}
	return nil
}

// MockCommentService implements service.CommentService for handler tests.
type MockCommentService struct {
	AddCommentFn    func(ctx context.Context, publicationID, userID uuid.UUID, text string) (*domain.Comment, error)
	ListCommentsFn  func(ctx context.Context, publicationID uuid.UUID) ([]domain.Comment, error)
	DeleteCommentFn func(ctx context.Context, commentID, userID uuid.UUID) error
	ListAllFn       func(ctx context.Context, page domain.Page) ([]domain.Comment, error)
}

var _ service.CommentService = (*MockCommentService)(nil)

func (m *MockCommentService) AddComment(
	ctx context.Context,
	publicationID, userID uuid.UUID,
	text string,
) (*domain.Comment, error) {
	if m.AddCommentFn != nil {
		return m.AddCommentFn(ctx, publicationID, userID, text)
	}
	return nil, nil
}

func (m *MockCommentService) ListComments(ctx context.Context, publicationID uuid.UUID) ([]domain.Comment, error) {
	if m.ListCommentsFn != nil {
		return m.ListCommentsFn(ctx, publicationID)
	}
	return []domain.Comment{}, nil
}

func (m *MockCommentService) ListAllComments(ctx context.Context, page domain.Page) ([]domain.Comment, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx, page)
	}
	return []domain.Comment{}, nil
}

func (m *MockCommentService) DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error {
	if m.DeleteCommentFn != nil {
		return m.DeleteCommentFn(ctx, commentID, userID)
	}
	return nil
}

// MockLikeService implements service.LikeService for handler tests.
type MockLikeService struct {
	LikeFn   func(ctx context.Context, userID uuid.UUID, target domain.LikeTarget) (*domain.Like, error)
	UnlikeFn func(ctx context.Context, userID uuid.UUID, target domain.LikeTarget) error
	CountFn  func(ctx context.Context, target domain.LikeTarget) (int, error)
	ListFn   func(ctx context.Context, page domain.Page) ([]domain.Like, error)
}

var _ service.LikeService = (*MockLikeService)(nil)

func (m *MockLikeService) Like(ctx context.Context, userID uuid.UUID, target domain.LikeTarget) (*domain.Like, error) {
	if m.LikeFn != nil {
		return m.LikeFn(ctx, userID, target)
	}
	return nil, nil
}

func (m *MockLikeService) Unlike(ctx context.Context, userID uuid.UUID, target domain.LikeTarget) error {
	if m.UnlikeFn != nil {
		return m.UnlikeFn(ctx, userID, target)
	}
	return nil
}

func (m *MockLikeService) Count(ctx context.Context, target domain.LikeTarget) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, target)
	}
	return 0, nil
}

func (m *MockLikeService) ListLikes(ctx context.Context, page domain.Page) ([]domain.Like, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	return []domain.Like{}, nil
}
