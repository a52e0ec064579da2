package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/service/auth"
	"github.com/phrazzld/autolist-api/internal/store"
)

// RegisterInput holds the fields of a registration request.
type RegisterInput struct {
	Username string
	Password string
	UserType domain.UserType
}

// UserService provides user registration, lookup and credential checks.
type UserService interface {
	// Register creates a user. Only an admin caller may create another admin;
	// other requests for the admin type are downgraded to a regular user.
	Register(ctx context.Context, input RegisterInput, callerIsAdmin bool) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// Authenticate checks the credentials and returns the user.
	// Returns ErrInvalidCredentials for an unknown username or a wrong password.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// ListUsers returns a page of users ordered by username.
	ListUsers(ctx context.Context, page domain.Page) ([]domain.User, error)

	// UpdateUser changes the target account. Callers may update themselves;
	// updating someone else or changing a user type requires an admin caller
	// (ErrAdminRequired). A new password is re-hashed.
	UpdateUser(ctx context.Context, callerID, targetID uuid.UUID, update domain.UserUpdate) (*domain.User, error)

	// DeleteUser removes the target account with its publications, comments and
	// likes. The same self-or-admin rule as UpdateUser applies. Image blobs of the
	// removed publications are deleted best-effort after commit.
	DeleteUser(ctx context.Context, callerID, targetID uuid.UUID) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	images    store.ImageStore
	blobs     store.BlobStore
	hasher    auth.PasswordHasher
	db        *sql.DB
	logger    *slog.Logger
}

// NewUserService creates a new UserService. images and blobs may be nil, in
// which case deleting a user leaves its image blobs in place.
func NewUserService(
	userStore store.UserStore,
	images store.ImageStore,
	blobs store.BlobStore,
	hasher auth.PasswordHasher,
	db *sql.DB,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		images:    images,
		blobs:     blobs,
		hasher:    hasher,
		db:        db,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

// Register implements UserService.Register
// Uses a transaction to ensure atomicity of the operation
func (s *UserServiceImpl) Register(
	ctx context.Context,
	input RegisterInput,
	callerIsAdmin bool,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	userType := input.UserType
	if userType == domain.UserTypeAdmin && !callerIsAdmin {
		log.Info("admin registration requested by non-admin, downgrading",
			slog.String("username", input.Username))
		userType = domain.UserTypeUser
	}

	user, err := domain.NewUser(input.Username, input.Password, userType)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, NewServiceError("user", "register", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			log.Debug("attempted to register an existing username",
				slog.String("username", user.Username))
			return nil, err
		}
		log.Error("failed to save user", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "register", err)
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("user_type", string(user.UserType)))
	return user, nil
}

// GetUser implements UserService.GetUser
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return nil, err
	}
	return user, nil
}

// Authenticate implements UserService.Authenticate
func (s *UserServiceImpl) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown username")
			return nil, ErrInvalidCredentials
		}
		return nil, NewServiceError("user", "authenticate", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ListUsers implements UserService.ListUsers
func (s *UserServiceImpl) ListUsers(ctx context.Context, page domain.Page) ([]domain.User, error) {
	users, err := s.userStore.List(ctx, page.Normalize())
	if err != nil {
		return nil, NewServiceError("user", "list", err)
	}
	return users, nil
}

// authorizeAccountChange loads the caller and checks the self-or-admin rule.
func (s *UserServiceImpl) authorizeAccountChange(
	ctx context.Context,
	callerID, targetID uuid.UUID,
) (callerIsAdmin bool, err error) {
	caller, err := s.userStore.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return false, ErrAdminRequired
		}
		return false, NewServiceError("user", "authorize", err)
	}
	if callerID != targetID && !caller.IsAdmin() {
		return false, ErrAdminRequired
	}
	return caller.IsAdmin(), nil
}

// UpdateUser implements UserService.UpdateUser
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	callerID, targetID uuid.UUID,
	update domain.UserUpdate,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	callerIsAdmin, err := s.authorizeAccountChange(ctx, callerID, targetID)
	if err != nil {
		return nil, err
	}
	if update.UserType != nil && !callerIsAdmin {
		return nil, ErrAdminRequired
	}

	var user *domain.User
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.userStore.WithTx(tx)
		current, err := users.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if err := current.Apply(update); err != nil {
			return err
		}
		if current.Password != "" {
			hash, err := s.hasher.Hash(current.Password)
			if err != nil {
				return NewServiceError("user", "update", err)
			}
			current.HashedPassword = hash
			current.Password = ""
		}
		if err := users.Update(ctx, current); err != nil {
			return err
		}
		user = current
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) && !store.IsNotFoundError(err) && !store.IsDuplicateError(err) {
			log.Error("failed to update user",
				slog.String("error", err.Error()),
				slog.String("user_id", targetID.String()))
		}
		return nil, err
	}

	log.Info("user updated",
		slog.String("user_id", targetID.String()),
		slog.String("by", callerID.String()),
		slog.Bool("password_changed", update.Password != nil))
	return user, nil
}

// DeleteUser implements UserService.DeleteUser
func (s *UserServiceImpl) DeleteUser(ctx context.Context, callerID, targetID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.authorizeAccountChange(ctx, callerID, targetID); err != nil {
		return err
	}

	var urls []string
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if s.images != nil {
			var err error
			if urls, err = s.images.WithTx(tx).ListURLsByOwner(ctx, targetID); err != nil {
				return err
			}
		}
		return s.userStore.WithTx(tx).Delete(ctx, targetID)
	})
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to delete user",
				slog.String("error", err.Error()),
				slog.String("user_id", targetID.String()))
		}
		return err
	}

	purgeBlobs(ctx, s.blobs, log, urls, "user deleted")
	log.Info("user deleted",
		slog.String("user_id", targetID.String()),
		slog.String("by", callerID.String()),
		slog.Int("images", len(urls)))
	return nil
}
