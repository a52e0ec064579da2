package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/mocks"
	"github.com/phrazzld/autolist-api/internal/service"
	"github.com/phrazzld/autolist-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	userID, pubID := uuid.New(), uuid.New()
	svc := &mocks.MockCommentService{
		AddCommentFn: func(_ context.Context, publicationID, uid uuid.UUID, text string) (*domain.Comment, error) {
			assert.Equal(t, pubID, publicationID)
			assert.Equal(t, userID, uid)
			return &domain.Comment{ID: uuid.New(), PublicationID: publicationID, UserID: uid, Text: text}, nil
		},
	}
	h := NewCommentHandler(svc, discardLogger())

	rec := httptest.NewRecorder()
	body := strings.NewReader(fmt.Sprintf(`{"publication_id":%q,"text":"Still available?"}`, pubID))
	asUser(userID, h.CreateComment)(rec, httptest.NewRequest(http.MethodPost, "/comentario", body))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Still available?")
}

func TestCreateComment_Errors(t *testing.T) {
	pubID := uuid.NewString()
	tests := []struct {
		name     string
		anon     bool
		body     string
		svcErr   error
		wantCode int
	}{
		{"anonymous", true, fmt.Sprintf(`{"publication_id":%q,"text":"hi"}`, pubID), nil, http.StatusUnauthorized},
		{"missing text", false, fmt.Sprintf(`{"publication_id":%q}`, pubID), nil, http.StatusBadRequest},
		{"bad publication id", false, `{"publication_id":"abc","text":"hi"}`, nil, http.StatusBadRequest},
		{"publication missing", false, fmt.Sprintf(`{"publication_id":%q,"text":"hi"}`, pubID),
			store.ErrPublicationNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockCommentService{
				AddCommentFn: func(context.Context, uuid.UUID, uuid.UUID, string) (*domain.Comment, error) {
					if tt.svcErr != nil {
						return nil, tt.svcErr
					}
					return &domain.Comment{}, nil
				},
			}
			h := NewCommentHandler(svc, discardLogger())
			handler := h.CreateComment
			if !tt.anon {
				handler = asUser(uuid.New(), h.CreateComment)
			}

			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodPost, "/comentario", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestListAndDeleteComments(t *testing.T) {
	userID, pubID, commentID := uuid.New(), uuid.New(), uuid.New()
	svc := &mocks.MockCommentService{
		ListCommentsFn: func(_ context.Context, publicationID uuid.UUID) ([]domain.Comment, error) {
			return []domain.Comment{{ID: commentID, PublicationID: publicationID, Text: "Nice car"}}, nil
		},
		DeleteCommentFn: func(_ context.Context, id, uid uuid.UUID) error {
			if uid != userID {
				return service.ErrNotOwned
			}
			return nil
		},
	}
	h := NewCommentHandler(svc, discardLogger())
	r := chi.NewRouter()
	r.Get("/comentario/publicacion/{id}", h.ListComments)
	r.Delete("/comentario/{id}", asUser(userID, h.DeleteComment))
	r.Delete("/other/comentario/{id}", asUser(uuid.New(), h.DeleteComment))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/comentario/publicacion/"+pubID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []domain.Comment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "Nice car", comments[0].Text)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/comentario/"+commentID.String(), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/other/comentario/"+commentID.String(), nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLikeHandler(t *testing.T) {
	userID, pubID := uuid.New(), uuid.New()
	var liked []domain.LikeTarget
	svc := &mocks.MockLikeService{
		LikeFn: func(_ context.Context, uid uuid.UUID, target domain.LikeTarget) (*domain.Like, error) {
			liked = append(liked, target)
			return &domain.Like{ID: uuid.New(), UserID: uid, Target: target}, nil
		},
		UnlikeFn: func(context.Context, uuid.UUID, domain.LikeTarget) error {
			return store.ErrLikeNotFound
		},
		CountFn: func(_ context.Context, target domain.LikeTarget) (int, error) {
			if target.PublicationID != nil && *target.PublicationID == pubID {
				return 7, nil
			}
			return 0, nil
		},
	}
	h := NewLikeHandler(svc, discardLogger())

	t.Run("like publication", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := strings.NewReader(fmt.Sprintf(`{"publication_id":%q}`, pubID))
		asUser(userID, h.Like)(rec, httptest.NewRequest(http.MethodPost, "/like", body))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.Len(t, liked, 1)
		require.NotNil(t, liked[0].PublicationID)
		assert.Equal(t, pubID, *liked[0].PublicationID)
		assert.Nil(t, liked[0].CommentID)
	})

	t.Run("both targets rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := strings.NewReader(fmt.Sprintf(`{"publication_id":%q,"comment_id":%q}`, pubID, uuid.New()))
		asUser(userID, h.Like)(rec, httptest.NewRequest(http.MethodPost, "/like", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no target rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		asUser(userID, h.Like)(rec, httptest.NewRequest(http.MethodPost, "/like", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unlike missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := strings.NewReader(fmt.Sprintf(`{"comment_id":%q}`, uuid.New()))
		asUser(userID, h.Unlike)(rec, httptest.NewRequest(http.MethodDelete, "/like", body))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("count", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Count(rec, httptest.NewRequest(http.MethodGet, "/like/count?publicacion_id="+pubID.String(), nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"count":7}`, rec.Body.String())
	})

	t.Run("count with bad id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Count(rec, httptest.NewRequest(http.MethodGet, "/like/count?comentario_id=zzz", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUploadHandler_SignedURL(t *testing.T) {
	presigner := &mocks.MockPresigner{}
	h := NewUploadHandler(service.NewUploadService(presigner, discardLogger()), discardLogger())

	rec := httptest.NewRecorder()
	asUser(uuid.New(), h.SignedURL)(rec,
		httptest.NewRequest(http.MethodGet, "/upload/signed-url?filename=My%20Car.JPG", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "X-Amz-Signature")
	assert.True(t, strings.HasPrefix(presigner.LastKey, service.DirectUploadPrefix))
	assert.True(t, strings.HasSuffix(presigner.LastKey, "-my-car.jpg"))
	assert.Equal(t, "image/jpeg", presigner.LastContentType)
}

func TestUploadHandler_Errors(t *testing.T) {
	t.Run("no presigner", func(t *testing.T) {
		h := NewUploadHandler(service.NewUploadService(nil, discardLogger()), discardLogger())
		rec := httptest.NewRecorder()
		asUser(uuid.New(), h.SignedURL)(rec,
			httptest.NewRequest(http.MethodGet, "/upload/signed-url?filename=car.png", nil))
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
		assert.Equal(t, "Direct uploads are not available", decodeError(t, rec).Error)
	})

	t.Run("anonymous", func(t *testing.T) {
		h := NewUploadHandler(service.NewUploadService(&mocks.MockPresigner{}, discardLogger()), discardLogger())
		rec := httptest.NewRecorder()
		h.SignedURL(rec, httptest.NewRequest(http.MethodGet, "/upload/signed-url?filename=car.png", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		db       Pinger
		wantCode int
	}{
		{"no database", nil, http.StatusOK},
		{"database up", fakePinger{}, http.StatusOK},
		{"database down", fakePinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, discardLogger())
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestListAllComments(t *testing.T) {
	var gotPage domain.Page
	svc := &mocks.MockCommentService{
		ListAllFn: func(_ context.Context, page domain.Page) ([]domain.Comment, error) {
			gotPage = page
			return []domain.Comment{
				{ID: uuid.New(), PublicationID: uuid.New(), Text: "Still available?"},
				{ID: uuid.New(), PublicationID: uuid.New(), Text: "Nice car"},
			}, nil
		},
	}
	h := NewCommentHandler(svc, discardLogger())

	rec := httptest.NewRecorder()
	h.ListAllComments(rec, httptest.NewRequest(http.MethodGet, "/comentario?limit=2", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.Page{Limit: 2}, gotPage)
	var comments []domain.Comment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&comments))
	require.Len(t, comments, 2)
	assert.Equal(t, "Still available?", comments[0].Text)

	rec = httptest.NewRecorder()
	h.ListAllComments(rec, httptest.NewRequest(http.MethodGet, "/comentario?skip=first", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLikeHandler_List(t *testing.T) {
	pubID, commentID := uuid.New(), uuid.New()
	svc := &mocks.MockLikeService{
		ListFn: func(_ context.Context, page domain.Page) ([]domain.Like, error) {
			if page.Skip > 0 {
				return nil, errors.New("connection refused")
			}
			return []domain.Like{
				{ID: uuid.New(), UserID: uuid.New(), Target: domain.LikeTarget{PublicationID: &pubID}},
				{ID: uuid.New(), UserID: uuid.New(), Target: domain.LikeTarget{CommentID: &commentID}},
			}, nil
		},
	}
	h := NewLikeHandler(svc, discardLogger())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/like", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var likes []struct {
		Target struct {
			PublicationID *uuid.UUID `json:"publication_id"`
			CommentID     *uuid.UUID `json:"comment_id"`
		} `json:"target"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&likes))
	require.Len(t, likes, 2)
	require.NotNil(t, likes[0].Target.PublicationID)
	assert.Equal(t, pubID, *likes[0].Target.PublicationID)
	assert.Nil(t, likes[0].Target.CommentID)
	require.NotNil(t, likes[1].Target.CommentID)
	assert.Equal(t, commentID, *likes[1].Target.CommentID)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/like?skip=20", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
