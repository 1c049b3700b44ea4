package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aforo/internal/domain"
)

// fakeSessionRepo is an in-memory SessionRepository.
type fakeSessionRepo struct {
	sessions map[uuid.UUID]domain.WorkSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]domain.WorkSession)}
}

func (f *fakeSessionRepo) Create(_ context.Context, s *domain.WorkSession) error {
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.WorkSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (f *fakeSessionRepo) List(_ context.Context, _, _ int) ([]domain.WorkSession, int, error) {
	out := make([]domain.WorkSession, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (f *fakeSessionRepo) Update(_ context.Context, s *domain.WorkSession) error {
	if _, ok := f.sessions[s.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

func shipmentJSON(t *testing.T, invoices int) json.RawMessage {
	t.Helper()
	rec := domain.ShipmentRecord{BLNumber: "MAEU1", Invoices: make([]domain.InvoiceRecord, invoices)}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	return data
}

func TestSessionService_CreateAndGet(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo())

	created, err := svc.Create(context.Background(), SessionSaveInput{
		SessionName:  "August arrivals",
		UserNotes:    "pending consignee confirmation",
		ShipmentData: shipmentJSON(t, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, 3, created.TotalDocuments)

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "August arrivals", got.SessionName)
}

func TestSessionService_CreateValidation(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo())

	_, err := svc.Create(context.Background(), SessionSaveInput{
		SessionName:  "   ",
		ShipmentData: shipmentJSON(t, 0),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(context.Background(), SessionSaveInput{
		SessionName:  "bad payload",
		ShipmentData: json.RawMessage("{broken"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionService_Update(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo())

	created, err := svc.Create(context.Background(), SessionSaveInput{
		SessionName:  "draft",
		ShipmentData: shipmentJSON(t, 1),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, SessionSaveInput{
		SessionName:  "final",
		Status:       "completed",
		ShipmentData: shipmentJSON(t, 3),
	})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.SessionName)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, 4, updated.TotalDocuments)
}

func TestSessionService_UpdateUnknown(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo())

	_, err := svc.Update(context.Background(), uuid.New(), SessionSaveInput{
		SessionName:  "ghost",
		ShipmentData: shipmentJSON(t, 0),
	})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_Delete(t *testing.T) {
	svc := NewSessionService(newFakeSessionRepo())

	created, err := svc.Create(context.Background(), SessionSaveInput{
		SessionName:  "gone soon",
		ShipmentData: shipmentJSON(t, 0),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), domain.ErrSessionNotFound)
}
