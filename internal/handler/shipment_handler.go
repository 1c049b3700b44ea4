package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"aforo/internal/domain"
	"aforo/internal/service"
	"aforo/internal/validator"
)

// ShipmentHandler handles shipment extraction, recomputation, and validation
// endpoints.
type ShipmentHandler struct {
	shipmentService service.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(shipmentService service.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipmentService: shipmentService}
}

// Process handles POST /api/v1/shipments/process
// Expects a multipart form with one "bill_of_lading" file and one or more
// "invoices" files.
func (h *ShipmentHandler) Process(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "multipart form is required")
		return
	}

	blHeaders := form.File["bill_of_lading"]
	if len(blHeaders) != 1 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "exactly one bill_of_lading file is required")
		return
	}
	invoiceHeaders := form.File["invoices"]
	if len(invoiceHeaders) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "at least one invoices file is required")
		return
	}

	bl, err := readDocument(blHeaders[0])
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", err.Error())
		return
	}

	input := service.ProcessShipmentInput{BillOfLading: bl}
	for _, header := range invoiceHeaders {
		doc, err := readDocument(header)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", err.Error())
			return
		}
		input.Invoices = append(input.Invoices, doc)
	}

	result, err := h.shipmentService.Process(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Recompute handles POST /api/v1/shipments/recompute
// Takes an edited shipment record and reruns the cost allocation.
func (h *ShipmentHandler) Recompute(c *gin.Context) {
	var rec domain.ShipmentRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body must be a shipment record")
		return
	}

	RespondOK(c, h.shipmentService.Recompute(&rec))
}

// Validate handles POST /api/v1/shipments/validate
func (h *ShipmentHandler) Validate(c *gin.Context) {
	var rec domain.ShipmentRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body must be a shipment record")
		return
	}

	RespondOK(c, h.shipmentService.Validate(&rec))
}

// ValidateField handles POST /api/v1/shipments/validate-field
func (h *ShipmentHandler) ValidateField(c *gin.Context) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Field == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "field and value are required")
		return
	}

	RespondOK(c, validator.ValidateField(req.Field, req.Value))
}

func readDocument(header *multipart.FileHeader) (service.DocumentInput, error) {
	f, err := header.Open()
	if err != nil {
		return service.DocumentInput{}, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.DocumentInput{}, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return service.DocumentInput{
		Filename:    header.Filename,
		ContentType: contentType,
		FileBytes:   data,
	}, nil
}
