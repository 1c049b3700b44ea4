package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aforo/internal/domain"
	"aforo/internal/service"
)

// fakeBatchService returns canned values for handler tests.
type fakeBatchService struct {
	batch     domain.Batch
	createErr error
	runErr    error
	statusErr error
}

func (f *fakeBatchService) Create(_ context.Context, _ service.BatchCreateInput) (domain.Batch, error) {
	return f.batch, f.createErr
}

func (f *fakeBatchService) Run(_ context.Context, _ uuid.UUID) error {
	return f.runErr
}

func (f *fakeBatchService) Status(_ context.Context, _ uuid.UUID) (domain.Batch, error) {
	return f.batch, f.statusErr
}

func (f *fakeBatchService) Cancel(_ context.Context, _ uuid.UUID) (domain.Batch, bool, error) {
	return f.batch, f.statusErr == nil, f.statusErr
}

func (f *fakeBatchService) Delete(_ context.Context, _ uuid.UUID) error {
	return f.statusErr
}

func (f *fakeBatchService) List(_ context.Context) []domain.Batch {
	return []domain.Batch{f.batch}
}

func batchRouter(svc service.BatchService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBatchHandler(svc)
	r := gin.New()
	r.POST("/batches", h.Create)
	r.GET("/batches/:id", h.Status)
	r.POST("/batches/:id/run", h.Run)
	r.POST("/batches/:id/cancel", h.Cancel)
	return r
}

func TestBatchHandler_Create(t *testing.T) {
	svc := &fakeBatchService{batch: domain.Batch{ID: uuid.New(), Status: domain.BatchStatusPending, TotalFiles: 2}}
	r := batchRouter(svc)

	body, _ := json.Marshal(service.BatchCreateInput{
		Name: "b",
		Files: []service.BatchFileInput{
			{Filename: "a.pdf", ContentType: "application/pdf", Kind: domain.DocumentKindInvoice},
			{Filename: "b.pdf", ContentType: "application/pdf", Kind: domain.DocumentKindInvoice},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/batches", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestBatchHandler_CreateInvalidBody(t *testing.T) {
	r := batchRouter(&fakeBatchService{})

	req := httptest.NewRequest(http.MethodPost, "/batches", bytes.NewReader([]byte("{oops")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchHandler_CreateTooManyFiles(t *testing.T) {
	svc := &fakeBatchService{createErr: domain.ErrInvalidInput}
	r := batchRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/batches", bytes.NewReader([]byte(`{"name":"b","files":[]}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestBatchHandler_RunAccepted(t *testing.T) {
	r := batchRouter(&fakeBatchService{})

	req := httptest.NewRequest(http.MethodPost, "/batches/"+uuid.NewString()+"/run", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestBatchHandler_RunNotPending(t *testing.T) {
	r := batchRouter(&fakeBatchService{runErr: domain.ErrBatchNotPending})

	req := httptest.NewRequest(http.MethodPost, "/batches/"+uuid.NewString()+"/run", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBatchHandler_CancelReportsOutcome(t *testing.T) {
	svc := &fakeBatchService{batch: domain.Batch{ID: uuid.New(), Status: domain.BatchStatusCancelled}}
	r := batchRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/batches/"+uuid.NewString()+"/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Cancelled bool         `json:"cancelled"`
			Batch     domain.Batch `json:"batch"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.Cancelled)
	assert.Equal(t, domain.BatchStatusCancelled, resp.Data.Batch.Status)
}

func TestBatchHandler_StatusNotFound(t *testing.T) {
	r := batchRouter(&fakeBatchService{statusErr: domain.ErrBatchNotFound})

	req := httptest.NewRequest(http.MethodGet, "/batches/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBatchHandler_InvalidID(t *testing.T) {
	r := batchRouter(&fakeBatchService{})

	req := httptest.NewRequest(http.MethodGet, "/batches/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
