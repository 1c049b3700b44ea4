package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"aforo/internal/domain"
	"aforo/internal/port"
)

// SessionSaveInput is the DTO for creating or updating a work session.
type SessionSaveInput struct {
	SessionName  string          `json:"session_name"`
	UserNotes    string          `json:"user_notes"`
	Status       string          `json:"status"`
	ShipmentData json.RawMessage `json:"shipment_data"`
}

// SessionService defines the work session persistence contract.
type SessionService interface {
	Create(ctx context.Context, input SessionSaveInput) (*domain.WorkSession, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkSession, error)
	List(ctx context.Context, offset, limit int) ([]domain.WorkSession, int, error)
	Update(ctx context.Context, id uuid.UUID, input SessionSaveInput) (*domain.WorkSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type sessionService struct {
	repo port.SessionRepository
}

// NewSessionService creates a new SessionService implementation.
func NewSessionService(repo port.SessionRepository) SessionService {
	return &sessionService{repo: repo}
}

func (s *sessionService) Create(ctx context.Context, input SessionSaveInput) (*domain.WorkSession, error) {
	if err := validateSessionInput(&input); err != nil {
		return nil, err
	}

	session := &domain.WorkSession{
		ID:             uuid.New(),
		SessionName:    input.SessionName,
		UserNotes:      input.UserNotes,
		TotalDocuments: countDocuments(input.ShipmentData),
		Status:         input.Status,
		ShipmentData:   input.ShipmentData,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	log.Printf("sessionService.Create: session %s saved (%q)", session.ID, session.SessionName)
	return session, nil
}

func (s *sessionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkSession, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *sessionService) List(ctx context.Context, offset, limit int) ([]domain.WorkSession, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, offset, limit)
}

func (s *sessionService) Update(ctx context.Context, id uuid.UUID, input SessionSaveInput) (*domain.WorkSession, error) {
	if err := validateSessionInput(&input); err != nil {
		return nil, err
	}

	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	session.SessionName = input.SessionName
	session.UserNotes = input.UserNotes
	session.Status = input.Status
	session.ShipmentData = input.ShipmentData
	session.TotalDocuments = countDocuments(input.ShipmentData)

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	log.Printf("sessionService.Delete: deleting session %s", id)
	return s.repo.Delete(ctx, id)
}

func validateSessionInput(input *SessionSaveInput) error {
	input.SessionName = strings.TrimSpace(input.SessionName)
	if input.SessionName == "" {
		return fmt.Errorf("%w: session name is required", domain.ErrInvalidInput)
	}
	if input.Status == "" {
		input.Status = "active"
	}
	if len(input.ShipmentData) == 0 || !json.Valid(input.ShipmentData) {
		return fmt.Errorf("%w: shipment data must be a valid JSON document", domain.ErrInvalidInput)
	}
	return nil
}

// countDocuments derives the stored document count: the bill of lading plus
// one per invoice.
func countDocuments(shipmentData json.RawMessage) int {
	var rec domain.ShipmentRecord
	if err := json.Unmarshal(shipmentData, &rec); err != nil {
		return 1
	}
	return 1 + len(rec.Invoices)
}
