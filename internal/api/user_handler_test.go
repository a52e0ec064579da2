package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/api/middleware"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/mocks"
	"github.com/phrazzld/autolist-api/internal/service"
	"github.com/phrazzld/autolist-api/internal/service/auth"
	"github.com/phrazzld/autolist-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	adminID, plainID := uuid.New(), uuid.New()
	users := map[uuid.UUID]*domain.User{
		adminID: {ID: adminID, Username: "root", UserType: domain.UserTypeAdmin},
		plainID: {ID: plainID, Username: "jane", UserType: domain.UserTypeUser},
	}

	tests := []struct {
		name          string
		callerID      uuid.UUID
		wantCallerArg bool
	}{
		{"anonymous caller", uuid.Nil, false},
		{"regular caller", plainID, false},
		{"admin caller", adminID, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotInput service.RegisterInput
			var gotCallerIsAdmin bool
			svc := &mocks.MockUserService{
				GetUserFn: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
					if u, ok := users[id]; ok {
						return u, nil
					}
					return nil, store.ErrUserNotFound
				},
				RegisterFn: func(_ context.Context, in service.RegisterInput, callerIsAdmin bool) (*domain.User, error) {
					gotInput, gotCallerIsAdmin = in, callerIsAdmin
					return &domain.User{ID: uuid.New(), Username: in.Username, UserType: in.UserType}, nil
				},
			}
			h := NewUserHandler(svc, &mocks.MockJWTService{}, false, discardLogger())

			handler := h.Register
			if tt.callerID != uuid.Nil {
				handler = asUser(tt.callerID, h.Register)
			}

			rec := httptest.NewRecorder()
			body := jsonBody(t, RegisterRequest{Username: "newbie", Password: "password123", UserType: "admin"})
			handler(rec, httptest.NewRequest(http.MethodPost, "/usuario", body))

			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			assert.Equal(t, "newbie", gotInput.Username)
			assert.Equal(t, domain.UserTypeAdmin, gotInput.UserType)
			assert.Equal(t, tt.wantCallerArg, gotCallerIsAdmin)
			assert.NotContains(t, rec.Body.String(), "password")
		})
	}
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
	}{
		{"short password", `{"username":"jane","password":"short"}`, nil, http.StatusBadRequest},
		{"unknown user type", `{"username":"jane","password":"password123","user_type":"root"}`, nil, http.StatusBadRequest},
		{"duplicate username", `{"username":"jane","password":"password123"}`, store.ErrUsernameExists, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockUserService{
				RegisterFn: func(context.Context, service.RegisterInput, bool) (*domain.User, error) {
					if tt.svcErr != nil {
						return nil, tt.svcErr
					}
					return &domain.User{ID: uuid.New()}, nil
				},
			}
			h := NewUserHandler(svc, &mocks.MockJWTService{}, false, discardLogger())

			rec := httptest.NewRecorder()
			h.Register(rec, httptest.NewRequest(http.MethodPost, "/usuario", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestLogin_SetsCookie(t *testing.T) {
	userID := uuid.New()
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	svc := &mocks.MockUserService{
		AuthenticateFn: func(_ context.Context, username, password string) (*domain.User, error) {
			if username == "jane" && password == "password123" {
				return &domain.User{ID: userID, Username: "jane"}, nil
			}
			return nil, service.ErrInvalidCredentials
		},
	}
	jwtSvc := &mocks.MockJWTService{Token: &auth.Token{Value: "signed.jwt.token", ExpiresAt: expires}}
	h := NewUserHandler(svc, jwtSvc, true, discardLogger())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login",
		jsonBody(t, LoginRequest{Username: "jane", Password: "password123"})))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, userID, resp.UserID)
	assert.Equal(t, "signed.jwt.token", resp.Token)
	assert.Equal(t, expires.Format(time.RFC3339), resp.ExpiresAt)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AccessTokenCookie, cookies[0].Name)
	assert.Equal(t, "signed.jwt.token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := NewUserHandler(&mocks.MockUserService{}, &mocks.MockJWTService{}, false, discardLogger())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login",
		jsonBody(t, LoginRequest{Username: "jane", Password: "nope-nope"})))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeError(t, rec).Error)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogout_ExpiresCookie(t *testing.T) {
	h := NewUserHandler(&mocks.MockUserService{}, &mocks.MockJWTService{}, false, discardLogger())

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AccessTokenCookie, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestMe(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockUserService{
		GetUserFn: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, Username: "jane", UserType: domain.UserTypeUser}, nil
		},
	}
	h := NewUserHandler(svc, &mocks.MockJWTService{}, false, discardLogger())

	t.Run("authenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		asUser(userID, h.Me)(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, userID.String(), resp["user_id"])
		assert.Equal(t, "jane", resp["username"])
	})

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Me(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetUser_NotFound(t *testing.T) {
	h := NewUserHandler(&mocks.MockUserService{}, &mocks.MockJWTService{}, false, discardLogger())
	r := chi.NewRouter()
	r.Get("/usuario/{id}", h.GetUser)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/usuario/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeError(t, rec).Error)
}

func TestListUsers(t *testing.T) {
	var gotPage domain.Page
	svc := &mocks.MockUserService{
		ListUsersFn: func(_ context.Context, page domain.Page) ([]domain.User, error) {
			gotPage = page
			return []domain.User{
				{ID: uuid.New(), Username: "ana", HashedPassword: "$2a$10$secret", UserType: domain.UserTypeUser},
				{ID: uuid.New(), Username: "root", HashedPassword: "$2a$10$secret", UserType: domain.UserTypeAdmin},
			}, nil
		},
	}
	h := NewUserHandler(svc, &mocks.MockJWTService{}, false, discardLogger())

	t.Run("page params forwarded", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListUsers(rec, httptest.NewRequest(http.MethodGet, "/usuario?skip=10&limit=5", nil))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, domain.Page{Skip: 10, Limit: 5}, gotPage)
		var got []UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "ana", got[0].Username)
		assert.NotContains(t, rec.Body.String(), "secret")
	})

	t.Run("bad limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListUsers(rec, httptest.NewRequest(http.MethodGet, "/usuario?limit=many", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateUser(t *testing.T) {
	callerID, targetID := uuid.New(), uuid.New()

	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantCode   int
		wantUpdate func(t *testing.T, u domain.UserUpdate)
	}{
		{
			name:     "rename and new password",
			body:     `{"username":"jane.doe","password":"longer-password"}`,
			wantCode: http.StatusOK,
			wantUpdate: func(t *testing.T, u domain.UserUpdate) {
				require.NotNil(t, u.Username)
				require.NotNil(t, u.Password)
				assert.Equal(t, "jane.doe", *u.Username)
				assert.Equal(t, "longer-password", *u.Password)
				assert.Nil(t, u.UserType)
			},
		},
		{
			name:     "promote",
			body:     `{"user_type":"admin"}`,
			wantCode: http.StatusOK,
			wantUpdate: func(t *testing.T, u domain.UserUpdate) {
				require.NotNil(t, u.UserType)
				assert.Equal(t, domain.UserTypeAdmin, *u.UserType)
			},
		},
		{name: "short password", body: `{"password":"short"}`, wantCode: http.StatusBadRequest},
		{name: "unknown user type", body: `{"user_type":"dealer"}`, wantCode: http.StatusBadRequest},
		{name: "not allowed", body: `{"username":"other"}`, svcErr: service.ErrAdminRequired, wantCode: http.StatusForbidden},
		{name: "username taken", body: `{"username":"root"}`, svcErr: store.ErrUsernameExists, wantCode: http.StatusConflict},
		{name: "missing user", body: `{"username":"ghost"}`, svcErr: store.ErrUserNotFound, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			svc := &mocks.MockUserService{
				UpdateUserFn: func(
					_ context.Context, caller, target uuid.UUID, update domain.UserUpdate,
				) (*domain.User, error) {
					called = true
					assert.Equal(t, callerID, caller)
					assert.Equal(t, targetID, target)
					if tt.wantUpdate != nil {
						tt.wantUpdate(t, update)
					}
					if tt.svcErr != nil {
						return nil, tt.svcErr
					}
					return &domain.User{ID: target, Username: "jane.doe", UserType: domain.UserTypeUser}, nil
				},
			}
			h := NewUserHandler(svc, &mocks.MockJWTService{}, false, discardLogger())
			r := chi.NewRouter()
			r.Put("/usuario/{id}", asUser(callerID, h.UpdateUser))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/usuario/"+targetID.String(), strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantUpdate != nil || tt.svcErr != nil, called)
			assert.NotContains(t, rec.Body.String(), "longer-password")
		})
	}
}

func TestDeleteUser(t *testing.T) {
	callerID, targetID := uuid.New(), uuid.New()
	var deleted []uuid.UUID
	svc := &mocks.MockUserService{
		DeleteUserFn: func(_ context.Context, caller, target uuid.UUID) error {
			if caller != target && caller != callerID {
				return service.ErrAdminRequired
			}
			deleted = append(deleted, target)
			return nil
		},
	}
	h := NewUserHandler(svc, &mocks.MockJWTService{}, false, discardLogger())
	r := chi.NewRouter()
	r.Delete("/usuario/{id}", asUser(callerID, h.DeleteUser))
	r.Delete("/other/usuario/{id}", asUser(uuid.New(), h.DeleteUser))
	r.Delete("/anon/usuario/{id}", h.DeleteUser)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/usuario/"+targetID.String(), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []uuid.UUID{targetID}, deleted)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/other/usuario/"+targetID.String(), nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/anon/usuario/"+targetID.String(), nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/usuario/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, deleted, 1)
}
