package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"aforo/internal/catalog"
)

// CatalogHandler handles tariff classification catalog endpoints.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// Lookup handles GET /api/v1/catalog/lookup?description=...
func (h *CatalogHandler) Lookup(c *gin.Context) {
	description := c.Query("description")
	if description == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_DESCRIPTION", "description query parameter is required")
		return
	}

	RespondOK(c, gin.H{
		"description": description,
		"tariff_code": h.catalog.Lookup(description),
	})
}

// Import handles POST /api/v1/catalog/import
// Expects a multipart form with one "file" Excel workbook.
func (h *CatalogHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}

	merged, err := h.catalog.LoadWorkbook(data)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_WORKBOOK", "file is not a readable Excel workbook")
		return
	}

	RespondOK(c, gin.H{"merged": merged, "total": h.catalog.Len()})
}

// Entries handles GET /api/v1/catalog
func (h *CatalogHandler) Entries(c *gin.Context) {
	RespondOK(c, h.catalog.Entries())
}
