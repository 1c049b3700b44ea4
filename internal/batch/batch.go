// Package batch tracks multi-file extraction runs: per-file job bookkeeping,
// progress reporting, and bounded-concurrency scheduling.
package batch

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"aforo/internal/domain"
)

// Batch is the mutable state of one extraction run. All access goes through
// its mutex; callers outside the package read it via Snapshot.
type Batch struct {
	mu sync.Mutex

	id        uuid.UUID
	name      string
	status    domain.BatchStatus
	files     []domain.BatchFile
	jobs      []domain.ExtractionJob
	startTime *time.Time
	endTime   *time.Time

	processedFiles int
	failedFiles    int
	results        []json.RawMessage
	errors         []domain.FileError
}

func newBatch(name string, files []domain.BatchFile) *Batch {
	jobs := make([]domain.ExtractionJob, len(files))
	for i, f := range files {
		jobs[i] = domain.ExtractionJob{
			ID:        uuid.New(),
			FileIndex: f.Index,
			Filename:  f.Filename,
			Status:    domain.JobStatusQueued,
		}
	}
	return &Batch{
		id:     uuid.New(),
		name:   name,
		status: domain.BatchStatusPending,
		files:  files,
		jobs:   jobs,
	}
}

// ID returns the batch identifier.
func (b *Batch) ID() uuid.UUID {
	return b.id
}

// Snapshot returns a point-in-time copy of the batch state.
func (b *Batch) Snapshot() domain.Batch {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := domain.Batch{
		ID:                 b.id,
		Name:               b.name,
		Status:             b.status,
		TotalFiles:         len(b.files),
		ProcessedFiles:     b.processedFiles,
		FailedFiles:        b.failedFiles,
		ProgressPercentage: progress(b.processedFiles+b.failedFiles, len(b.files)),
		Results:            make([]json.RawMessage, len(b.results)),
		Errors:             make([]domain.FileError, len(b.errors)),
		Jobs:               make([]domain.ExtractionJob, len(b.jobs)),
	}
	copy(snap.Results, b.results)
	copy(snap.Errors, b.errors)
	copy(snap.Jobs, b.jobs)

	if b.startTime != nil {
		t := *b.startTime
		snap.StartTime = &t
	}
	if b.endTime != nil {
		t := *b.endTime
		snap.EndTime = &t
	}
	return snap
}

// progress reports completion as a percentage, clamped to [0, 100].
// An empty batch is complete by definition.
func progress(done, total int) float64 {
	if total == 0 {
		return 100
	}
	pct := float64(done) / float64(total) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// start transitions pending → running. Any other starting state is an error.
func (b *Batch) start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status != domain.BatchStatusPending {
		return domain.ErrBatchNotPending
	}
	now := time.Now()
	b.status = domain.BatchStatusRunning
	b.startTime = &now
	return nil
}

// Cancel marks a running batch cancelled, effective immediately. In-flight
// jobs keep recording their outcomes afterwards; the status does not change
// back. Cancelling a batch in any other state is a no-op and returns false.
func (b *Batch) Cancel() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status != domain.BatchStatusRunning {
		return false
	}
	now := time.Now()
	b.status = domain.BatchStatusCancelled
	b.endTime = &now
	return true
}

// cancelled reports whether the batch was cancelled.
func (b *Batch) cancelled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status == domain.BatchStatusCancelled
}

// markJobRunning flags the job for a file index as in flight.
func (b *Batch) markJobRunning(fileIndex int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if j := b.jobAt(fileIndex); j != nil {
		j.Status = domain.JobStatusRunning
	}
}

// recordSuccess stores a per-file result. Outcomes are recorded even after
// cancellation so that completed work is never silently dropped.
func (b *Batch) recordSuccess(fileIndex int, result json.RawMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.processedFiles++
	b.results = append(b.results, result)
	if j := b.jobAt(fileIndex); j != nil {
		j.Status = domain.JobStatusSucceeded
		j.Result = result
	}
}

// recordFailure stores a per-file error record.
func (b *Batch) recordFailure(fileIndex int, filename, errMsg string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failedFiles++
	b.errors = append(b.errors, domain.FileError{
		FileIndex: fileIndex,
		Filename:  filename,
		Error:     errMsg,
	})
	if j := b.jobAt(fileIndex); j != nil {
		j.Status = domain.JobStatusFailed
		j.Error = errMsg
	}
}

// complete transitions running → completed. A batch cancelled or failed while
// jobs were draining keeps that status.
func (b *Batch) complete() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status != domain.BatchStatusRunning {
		return
	}
	now := time.Now()
	b.status = domain.BatchStatusCompleted
	b.endTime = &now
}

// fail marks the whole batch failed regardless of per-file outcomes.
func (b *Batch) fail() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status.Terminal() {
		return
	}
	now := time.Now()
	b.status = domain.BatchStatusFailed
	b.endTime = &now
}

func (b *Batch) jobAt(fileIndex int) *domain.ExtractionJob {
	for i := range b.jobs {
		if b.jobs[i].FileIndex == fileIndex {
			return &b.jobs[i]
		}
	}
	return nil
}
