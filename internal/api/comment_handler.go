package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/autolist-api/internal/api/shared"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/service"
)

// CommentRequest is the body of POST /comentario.
type CommentRequest struct {
	PublicationID string `json:"publication_id" validate:"required,uuid"`
	Text          string `json:"text"           validate:"required,max=2000"`
}

// CommentHandler handles comment requests.
type CommentHandler struct {
	comments service.CommentService
	logger   *slog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments service.CommentService, logger *slog.Logger) *CommentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CommentHandler")
	}
	return &CommentHandler{
		comments: comments,
		logger:   logger.With(slog.String("component", "comment_handler")),
	}
}

// CreateComment handles POST /comentario
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	publicationID, err := parseUUID("publication_id", req.PublicationID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	comment, err := h.comments.AddComment(r.Context(), publicationID, userID, req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add comment")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, comment)
}

// ListComments handles GET /comentario/publicacion/{id}
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	publicationID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	comments, err := h.comments.ListComments(r.Context(), publicationID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list comments")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, comments)
}

// ListAllComments handles GET /comentario?skip=&limit=
func (h *CommentHandler) ListAllComments(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	comments, err := h.comments.ListAllComments(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list comments")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, comments)
}

// DeleteComment handles DELETE /comentario/{id}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, commentID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.comments.DeleteComment(r.Context(), commentID, userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete comment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
