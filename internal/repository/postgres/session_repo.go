package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"aforo/internal/domain"
	"aforo/internal/port"
)

type sessionRepo struct {
	db *sqlx.DB
}

// NewSessionRepo creates a new PostgreSQL-backed SessionRepository.
func NewSessionRepo(db *sqlx.DB) port.SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *domain.WorkSession) error {
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	query := `INSERT INTO work_sessions
		(id, session_name, user_notes, total_documents, status, shipment_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.SessionName, session.UserNotes, session.TotalDocuments,
		session.Status, session.ShipmentData, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sessionRepo.Create: %w", err)
	}
	return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkSession, error) {
	var session domain.WorkSession
	err := r.db.GetContext(ctx, &session, "SELECT * FROM work_sessions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("sessionRepo.GetByID: %w", err)
	}
	return &session, nil
}

func (r *sessionRepo) List(ctx context.Context, offset, limit int) ([]domain.WorkSession, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM work_sessions")
	if err != nil {
		return nil, 0, fmt.Errorf("sessionRepo.List count: %w", err)
	}

	var sessions []domain.WorkSession
	err = r.db.SelectContext(ctx, &sessions,
		`SELECT id, session_name, user_notes, total_documents, status, shipment_data, created_at, updated_at
		 FROM work_sessions ORDER BY updated_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sessionRepo.List: %w", err)
	}
	return sessions, total, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *domain.WorkSession) error {
	session.UpdatedAt = time.Now().UTC()

	query := `UPDATE work_sessions
		SET session_name = $2, user_notes = $3, total_documents = $4,
		    status = $5, shipment_data = $6, updated_at = $7
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		session.ID, session.SessionName, session.UserNotes, session.TotalDocuments,
		session.Status, session.ShipmentData, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sessionRepo.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sessionRepo.Update rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM work_sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("sessionRepo.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sessionRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
