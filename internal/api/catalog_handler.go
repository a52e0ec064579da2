package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/autolist-api/internal/api/shared"
	"github.com/phrazzld/autolist-api/internal/service"
)

// CatalogNameRequest is the body for creating or renaming a category or brand.
type CatalogNameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CatalogHandler serves categories and brands. Mutating routes are expected
// behind the admin middleware.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CatalogHandler")
	}
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "catalog_handler")),
	}
}

// ListCategories handles GET /categoria
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list categories")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, categories)
}

// GetCategory handles GET /categoria/{id}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	category, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get category")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, category)
}

// CreateCategory handles POST /categoria
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CatalogNameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create category")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, category)
}

// RenameCategory handles PUT /categoria/{id}
func (h *CatalogHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req CatalogNameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	category, err := h.catalog.RenameCategory(r.Context(), id, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update category")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, category)
}

// DeleteCategory handles DELETE /categoria/{id}
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBrands handles GET /marca
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalog.ListBrands(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list brands")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, brands)
}

// GetBrand handles GET /marca/{id}
func (h *CatalogHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	brand, err := h.catalog.GetBrand(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get brand")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, brand)
}

// CreateBrand handles POST /marca
func (h *CatalogHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req CatalogNameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	brand, err := h.catalog.CreateBrand(r.Context(), req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create brand")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, brand)
}

// RenameBrand handles PUT /marca/{id}
func (h *CatalogHandler) RenameBrand(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req CatalogNameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	brand, err := h.catalog.RenameBrand(r.Context(), id, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update brand")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, brand)
}

// DeleteBrand handles DELETE /marca/{id}
func (h *CatalogHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := h.catalog.DeleteBrand(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete brand")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
