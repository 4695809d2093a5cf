package handler

import (
	"net/http"

	"book-reader/internal/domain"
)

// CatalogHandler handles book list requests
type CatalogHandler struct {
	catalogService domain.CatalogService
	logger         domain.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService domain.CatalogService, logger domain.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// List handles fetching the library catalog
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalogService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}
