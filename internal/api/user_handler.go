package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/api/middleware"
	"github.com/phrazzld/autolist-api/internal/api/shared"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/service"
	"github.com/phrazzld/autolist-api/internal/service/auth"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username"  validate:"required,min=3,max=50"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
	UserType string `json:"user_type" validate:"omitempty,oneof=user admin"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest defines the payload of PUT /usuario/{id}. Omitted fields
// are left unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username"  validate:"omitempty,min=3,max=50"`
	Password *string `json:"password"  validate:"omitempty,min=8,max=72"`
	UserType *string `json:"user_type" validate:"omitempty,oneof=user admin"`
}

func (req UpdateUserRequest) toUpdate() domain.UserUpdate {
	update := domain.UserUpdate{Username: req.Username, Password: req.Password}
	if req.UserType != nil {
		t := domain.UserType(*req.UserType)
		update.UserType = &t
	}
	return update
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        uuid.UUID       `json:"id"`
	Username  string          `json:"username"`
	UserType  domain.UserType `json:"user_type"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuthResponse defines the successful response of the login endpoint.
type AuthResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt string    `json:"expires_at"`
}

// UserHandler handles registration, login and profile requests.
type UserHandler struct {
	users        service.UserService
	jwtService   auth.JWTService
	cookieSecure bool
	logger       *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(
	users service.UserService,
	jwtService auth.JWTService,
	cookieSecure bool,
	logger *slog.Logger,
) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}
	return &UserHandler{
		users:        users,
		jwtService:   jwtService,
		cookieSecure: cookieSecure,
		logger:       logger.With(slog.String("component", "user_handler")),
	}
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, UserType: u.UserType, CreatedAt: u.CreatedAt}
}

// Register handles POST /usuario
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	callerIsAdmin := false
	if callerID, ok := getUserIDFromContext(r); ok {
		caller, err := h.users.GetUser(r.Context(), callerID)
		if err == nil {
			callerIsAdmin = caller.IsAdmin()
		}
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		UserType: domain.UserType(req.UserType),
	}, callerIsAdmin)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, toUserResponse(user))
}

// GetUser handles GET /usuario/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toUserResponse(user))
}

// ListUsers handles GET /usuario?skip=&limit=
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	users, err := h.users.ListUsers(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// UpdateUser handles PUT /usuario/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	callerID, targetID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.UpdateUser(r.Context(), callerID, targetID, req.toUpdate())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toUserResponse(user))
}

// DeleteUser handles DELETE /usuario/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	callerID, targetID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(r.Context(), callerID, targetID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Login handles POST /login. The token is returned in the body and set as an
// HttpOnly cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID, user.Username)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token.Value,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt.Format(time.RFC3339),
	})
}

// Logout handles POST /logout by expiring the token cookie.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{
		"user_id":   user.ID,
		"username":  user.Username,
		"user_type": user.UserType,
	})
}
