package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/api/shared"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/redact"
	"github.com/phrazzld/autolist-api/internal/service/auth"
	"github.com/phrazzld/autolist-api/internal/store"
)

// AccessTokenCookie is the cookie that carries the access token for browser clients.
const AccessTokenCookie = "access_token"

// errNoToken is returned by extractToken when the request carries no credentials.
var errNoToken = errors.New("no token")

// UserLookup loads a user by ID. It is satisfied by the user service.
type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates the access token from the Authorization header or the
// access token cookie and adds the user to the request context.
// Requests without a valid token are rejected with 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractToken(r)
		if err != nil {
			if errors.Is(err, errNoToken) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			} else {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			}
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			m.rejectToken(w, r, err)
			return
		}

		ctx := shared.WithUser(r.Context(), claims.UserID, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthenticate adds the user to the context when a valid token is
// present and lets the request through anonymously otherwise.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractToken(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			logger.FromContextOrDefault(r.Context(), m.logger).Debug("ignoring invalid optional token",
				slog.String("error", redact.Error(err)))
			next.ServeHTTP(w, r)
			return
		}

		ctx := shared.WithUser(r.Context(), claims.UserID, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) rejectToken(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
	default:
		logger.FromContextOrDefault(r.Context(), m.logger).Error("failed to validate token",
			slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
	}
}

// extractToken prefers the Authorization header and falls back to the cookie.
func extractToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", auth.ErrInvalidToken
		}
		return parts[1], nil
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", errNoToken
}

// RequireAdmin rejects requests from users that are not administrators.
// It must run after Authenticate.
func RequireAdmin(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _, ok := shared.UserFromContext(r.Context())
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if err != nil {
				if store.IsNotFoundError(err) {
					shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
					return
				}
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"Failed to check permissions", err)
				return
			}
			if !user.IsAdmin() {
				shared.RespondWithError(w, r, http.StatusForbidden, "Administrator privileges required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
