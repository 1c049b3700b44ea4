package port

import (
	"context"

	"github.com/google/uuid"

	"aforo/internal/domain"
)

// SessionRepository defines the contract for work session persistence.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkSession, error)
	List(ctx context.Context, offset, limit int) ([]domain.WorkSession, int, error)
	Update(ctx context.Context, session *domain.WorkSession) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FileMetaRepository defines the contract for file metadata persistence.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FileMeta, error)
	List(ctx context.Context, offset, limit int) ([]domain.FileMeta, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
