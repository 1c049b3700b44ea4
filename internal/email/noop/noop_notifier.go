package noop

import (
	"context"
	"log"

	"aforo/internal/domain"
	"aforo/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a no-op Notifier that logs batch outcomes to stdout.
func NewNoopNotifier() port.Notifier {
	return &noopNotifier{}
}

func (n *noopNotifier) BatchFinished(_ context.Context, recipient string, batch *domain.Batch) error {
	log.Printf("[NOOP EMAIL] Batch %q finished for %s: status=%s processed=%d failed=%d",
		batch.Name, recipient, batch.Status, batch.ProcessedFiles, batch.FailedFiles)
	return nil
}
