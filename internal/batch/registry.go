package batch

import (
	"sync"

	"github.com/google/uuid"

	"aforo/internal/domain"
)

// Registry holds the live batches of this process.
type Registry struct {
	mu      sync.RWMutex
	batches map[uuid.UUID]*Batch
}

// NewRegistry creates an empty batch registry.
func NewRegistry() *Registry {
	return &Registry{batches: make(map[uuid.UUID]*Batch)}
}

// Create registers a new pending batch for the given files.
func (r *Registry) Create(name string, files []domain.BatchFile) *Batch {
	b := newBatch(name, files)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[b.id] = b
	return b
}

// Get returns the batch with the given id.
func (r *Registry) Get(id uuid.UUID) (*Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.batches[id]
	if !ok {
		return nil, domain.ErrBatchNotFound
	}
	return b, nil
}

// Delete removes a batch from the registry. Running batches cannot be
// deleted; cancel them first.
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.batches[id]
	if !ok {
		return domain.ErrBatchNotFound
	}

	b.mu.Lock()
	running := b.status == domain.BatchStatusRunning
	b.mu.Unlock()
	if running {
		return domain.ErrInvalidInput
	}

	delete(r.batches, id)
	return nil
}

// List returns snapshots of all registered batches.
func (r *Registry) List() []domain.Batch {
	r.mu.RLock()
	live := make([]*Batch, 0, len(r.batches))
	for _, b := range r.batches {
		live = append(live, b)
	}
	r.mu.RUnlock()

	out := make([]domain.Batch, 0, len(live))
	for _, b := range live {
		out = append(out, b.Snapshot())
	}
	return out
}
