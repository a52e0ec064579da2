package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/autolist-api/internal/api/shared"
	"github.com/phrazzld/autolist-api/internal/domain"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/service"
)

// LikeRequest names the liked target. Exactly one field must be set.
type LikeRequest struct {
	PublicationID *uuid.UUID `json:"publication_id,omitempty"`
	CommentID     *uuid.UUID `json:"comment_id,omitempty"`
}

func (req LikeRequest) target() domain.LikeTarget {
	return domain.LikeTarget{PublicationID: req.PublicationID, CommentID: req.CommentID}
}

// Validate implements the request validation hook used by shared.ValidateRequest.
func (req LikeRequest) Validate() error {
	return req.target().Validate()
}

// LikeHandler handles like requests.
type LikeHandler struct {
	likes  service.LikeService
	logger *slog.Logger
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likes service.LikeService, logger *slog.Logger) *LikeHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LikeHandler")
	}
	return &LikeHandler{
		likes:  likes,
		logger: logger.With(slog.String("component", "like_handler")),
	}
}

// Like handles POST /like
func (h *LikeHandler) Like(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}
	var req LikeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	like, err := h.likes.Like(r.Context(), userID, req.target())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to like")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, like)
}

// Unlike handles DELETE /like
func (h *LikeHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}
	var req LikeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.likes.Unlike(r.Context(), userID, req.target()); err != nil {
		HandleAPIError(w, r, err, "Failed to remove like")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /like?skip=&limit=
func (h *LikeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	likes, err := h.likes.ListLikes(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list likes")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, likes)
}

// Count handles GET /like/count?publicacion_id=... or ?comentario_id=...
func (h *LikeHandler) Count(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	publicationID, err := parseOptionalUUID("publicacion_id", q.Get("publicacion_id"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	commentID, err := parseOptionalUUID("comentario_id", q.Get("comentario_id"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	n, err := h.likes.Count(r.Context(), domain.LikeTarget{PublicationID: publicationID, CommentID: commentID})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count likes")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]int{"count": n})
}
