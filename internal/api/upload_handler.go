package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/autolist-api/internal/api/shared"
	"github.com/phrazzld/autolist-api/internal/platform/logger"
	"github.com/phrazzld/autolist-api/internal/service"
)

// UploadHandler issues signed direct-upload URLs.
type UploadHandler struct {
	uploads service.UploadService
	logger  *slog.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploads service.UploadService, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UploadHandler")
	}
	return &UploadHandler{
		uploads: uploads,
		logger:  logger.With(slog.String("component", "upload_handler")),
	}
}

// SignedURL handles GET /upload/signed-url?filename=...
func (h *UploadHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	upload, err := h.uploads.SignedUploadURL(r.Context(), userID, r.URL.Query().Get("filename"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create upload URL")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, upload)
}
