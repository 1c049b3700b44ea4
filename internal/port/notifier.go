package port

import (
	"context"

	"aforo/internal/domain"
)

// Notifier defines the contract for batch completion notifications.
type Notifier interface {
	BatchFinished(ctx context.Context, recipient string, batch *domain.Batch) error
}
