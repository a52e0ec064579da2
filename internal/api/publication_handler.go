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

// ReorderRequest is the body of PUT /publicacion/{id}/reorder-images.
type ReorderRequest struct {
	Positions map[string]int `json:"positions" validate:"required,min=1,dive,gt=0"`
	Version   int            `json:"version"   validate:"gte=0"`
}

// PublicationHandler handles publication-related HTTP requests
type PublicationHandler struct {
	publications   service.PublicationService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewPublicationHandler creates a new PublicationHandler
func NewPublicationHandler(
	publications service.PublicationService,
	maxUploadBytes int64,
	logger *slog.Logger,
) *PublicationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PublicationHandler")
	}
	return &PublicationHandler{
		publications:   publications,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "publication_handler")),
	}
}

// CreatePublication handles POST /publicacion
func (h *PublicationHandler) CreatePublication(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	form, err := parsePublicationForm(w, r, h.maxUploadBytes, false)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read the request")
		return
	}

	detail, err := h.publications.CreatePublication(r.Context(), userID, form.Input, form.Files)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create publication")
		return
	}

	log.Debug("publication created", slog.String("publication_id", detail.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, detail)
}

// ListPublications handles GET /publicacion
func (h *PublicationHandler) ListPublications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	brandID, err := parseOptionalUUID("brand_id", q.Get("brand_id"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	categoryID, err := parseOptionalUUID("category_id", q.Get("category_id"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	year, err := parseOptionalInt("year", q.Get("year"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	skip, err := parseOptionalInt("skip", q.Get("skip"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	limit, err := parseOptionalInt("limit", q.Get("limit"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	filter := domain.PublicationFilter{
		BrandID:    brandID,
		CategoryID: categoryID,
		Year:       year,
		Title:      q.Get("title"),
	}
	if skip != nil {
		filter.Skip = *skip
	}
	if limit != nil {
		filter.Limit = *limit
	}

	page, err := h.publications.ListPublications(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list publications")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, page)
}

// GetPublication handles GET /publicacion/{id}
func (h *PublicationHandler) GetPublication(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	detail, err := h.publications.GetPublication(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get publication")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, detail)
}

// GetPublicationForEdit handles GET /publicacion/edit-post/{id}
func (h *PublicationHandler) GetPublicationForEdit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	detail, err := h.publications.GetPublicationForEdit(r.Context(), id, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get publication")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, detail)
}

// EditPublication handles PUT /publicacion/{id}
func (h *PublicationHandler) EditPublication(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	form, err := parsePublicationForm(w, r, h.maxUploadBytes, true)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read the request")
		return
	}

	detail, err := h.publications.EditPublication(r.Context(), service.EditRequest{
		PublicationID:   id,
		UserID:          userID,
		Input:           form.Input,
		KeepIDs:         form.KeepIDs,
		Files:           form.Files,
		Cover:           form.Cover,
		ExpectedVersion: form.Version,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update publication")
		return
	}

	log.Debug("publication edited",
		slog.String("publication_id", id.String()),
		slog.Int("version", detail.Version))
	shared.RespondWithJSON(w, r, http.StatusOK, detail)
}

// DeletePublication handles DELETE /publicacion/{id}
func (h *PublicationHandler) DeletePublication(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.publications.DeletePublication(r.Context(), id, userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete publication")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderImages handles PUT /publicacion/{id}/reorder-images
func (h *PublicationHandler) ReorderImages(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req ReorderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	positions := make(map[uuid.UUID]int, len(req.Positions))
	for rawID, pos := range req.Positions {
		imageID, err := parseUUID("positions", rawID)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		positions[imageID] = pos
	}

	detail, err := h.publications.ReorderImages(r.Context(), id, userID, positions, req.Version)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reorder images")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, detail)
}
