package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aforo/internal/service"
)

// BatchHandler handles batch extraction endpoints.
type BatchHandler struct {
	batchService service.BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchService service.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// Create handles POST /api/v1/batches
func (h *BatchHandler) Create(c *gin.Context) {
	var input service.BatchCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		return
	}

	snap, err := h.batchService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, snap)
}

// Run handles POST /api/v1/batches/:id/run
func (h *BatchHandler) Run(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.batchService.Run(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, gin.H{"id": id, "status": "running"})
}

// Status handles GET /api/v1/batches/:id
func (h *BatchHandler) Status(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	snap, err := h.batchService.Status(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, snap)
}

// Cancel handles POST /api/v1/batches/:id/cancel
func (h *BatchHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	snap, cancelled, err := h.batchService.Cancel(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"cancelled": cancelled, "batch": snap})
}

// Delete handles DELETE /api/v1/batches/:id
func (h *BatchHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.batchService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": id})
}

// List handles GET /api/v1/batches
func (h *BatchHandler) List(c *gin.Context) {
	RespondOK(c, h.batchService.List(c.Request.Context()))
}
