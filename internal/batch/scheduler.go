package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"aforo/internal/domain"
)

// ProcessFunc extracts a single file and returns its structured result.
type ProcessFunc func(ctx context.Context, file domain.BatchFile) (json.RawMessage, error)

// Scheduler runs batches with bounded concurrency.
type Scheduler struct {
	concurrency int
	process     ProcessFunc
}

// NewScheduler creates a Scheduler dispatching at most concurrency files at
// once. A concurrency of 0 or less falls back to 1.
func NewScheduler(concurrency int, process ProcessFunc) *Scheduler {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Scheduler{concurrency: concurrency, process: process}
}

// Run executes all files of a pending batch and blocks until every dispatched
// job has finished. Per-file failures are recorded on the batch and do not
// stop the run; the batch still completes. A fault in the scheduling loop
// itself marks the whole batch failed.
func (s *Scheduler) Run(ctx context.Context, b *Batch) (err error) {
	if err := b.start(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("batch.Scheduler: batch %s scheduler fault: %v", b.ID(), r)
			b.fail()
			err = fmt.Errorf("%w: %v", domain.ErrSchedulerFault, r)
		}
	}()

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	snap := b.Snapshot()
	log.Printf("batch.Scheduler: batch %s started (%d files, concurrency=%d)", b.ID(), snap.TotalFiles, s.concurrency)

	for i := range snap.Jobs {
		file := fileAt(b, snap.Jobs[i].FileIndex)

		// Cancellation via the batch or the context stops dispatching new
		// jobs; files never dispatched stay queued.
		if b.cancelled() {
			break
		}
		select {
		case <-ctx.Done():
			b.Cancel()
		case sem <- struct{}{}:
			if ctx.Err() != nil {
				b.Cancel()
			}
		}
		if b.cancelled() {
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			s.runOne(ctx, b, file)
		}()
	}

	wg.Wait()
	b.complete()

	final := b.Snapshot()
	log.Printf("batch.Scheduler: batch %s finished (status=%s, processed=%d, failed=%d)",
		b.ID(), final.Status, final.ProcessedFiles, final.FailedFiles)
	return nil
}

// runOne processes a single file. A panic inside the process function is a
// per-file failure, not a batch failure.
func (s *Scheduler) runOne(ctx context.Context, b *Batch, file domain.BatchFile) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("batch.Scheduler: job for %q panicked: %v", file.Filename, r)
			b.recordFailure(file.Index, file.Filename, fmt.Sprintf("panic: %v", r))
		}
	}()

	b.markJobRunning(file.Index)

	result, err := s.process(ctx, file)
	if err != nil {
		log.Printf("batch.Scheduler: file %d (%s) failed: %v", file.Index, file.Filename, err)
		b.recordFailure(file.Index, file.Filename, err.Error())
		return
	}
	b.recordSuccess(file.Index, result)
}

func fileAt(b *Batch, index int) domain.BatchFile {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, f := range b.files {
		if f.Index == index {
			return f
		}
	}
	return domain.BatchFile{Index: index}
}
