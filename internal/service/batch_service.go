package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"aforo/internal/batch"
	"aforo/internal/config"
	"aforo/internal/domain"
	"aforo/internal/port"
)

// BatchFileInput references one uploaded object to include in a batch.
type BatchFileInput struct {
	Filename    string              `json:"filename"`
	ContentType string              `json:"content_type"`
	Bucket      string              `json:"bucket"`
	Key         string              `json:"key"`
	Kind        domain.DocumentKind `json:"kind"`
}

// BatchCreateInput is the DTO for batch creation requests.
type BatchCreateInput struct {
	Name  string           `json:"name"`
	Files []BatchFileInput `json:"files"`
}

// BatchService defines the batch extraction contract.
type BatchService interface {
	Create(ctx context.Context, input BatchCreateInput) (domain.Batch, error)
	Run(ctx context.Context, id uuid.UUID) error
	Status(ctx context.Context, id uuid.UUID) (domain.Batch, error)
	Cancel(ctx context.Context, id uuid.UUID) (domain.Batch, bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) []domain.Batch
}

type batchService struct {
	registry  *batch.Registry
	scheduler *batch.Scheduler
	storage   port.ObjectStorage
	extractor port.Extractor
	notifier  port.Notifier
	recipient string
	maxFiles  int
}

// NewBatchService creates a new BatchService implementation.
func NewBatchService(
	registry *batch.Registry,
	storage port.ObjectStorage,
	ext port.Extractor,
	notifier port.Notifier,
	batchCfg *config.BatchConfig,
	emailCfg *config.EmailConfig,
) BatchService {
	s := &batchService{
		registry:  registry,
		storage:   storage,
		extractor: ext,
		notifier:  notifier,
		recipient: emailCfg.Recipient,
		maxFiles:  batchCfg.MaxFiles,
	}
	s.scheduler = batch.NewScheduler(batchCfg.Concurrency, s.processFile)
	return s
}

func (s *batchService) Create(_ context.Context, input BatchCreateInput) (domain.Batch, error) {
	if len(input.Files) == 0 {
		return domain.Batch{}, fmt.Errorf("%w: batch has no files", domain.ErrInvalidInput)
	}
	if len(input.Files) > s.maxFiles {
		return domain.Batch{}, fmt.Errorf("%w: batch exceeds %d files", domain.ErrInvalidInput, s.maxFiles)
	}

	files := make([]domain.BatchFile, len(input.Files))
	for i, f := range input.Files {
		if _, ok := domain.AllowedContentTypes[f.ContentType]; !ok {
			return domain.Batch{}, fmt.Errorf("%w: unsupported content type %q for %q", domain.ErrInvalidInput, f.ContentType, f.Filename)
		}
		if f.Kind != domain.DocumentKindBillOfLading && f.Kind != domain.DocumentKindInvoice {
			return domain.Batch{}, fmt.Errorf("%w: unknown document kind %q for %q", domain.ErrInvalidInput, f.Kind, f.Filename)
		}
		files[i] = domain.BatchFile{
			Index:       i,
			Filename:    f.Filename,
			ContentType: f.ContentType,
			Bucket:      f.Bucket,
			Key:         f.Key,
			Kind:        f.Kind,
		}
	}

	b := s.registry.Create(input.Name, files)
	log.Printf("batchService.Create: batch %s created (%d files)", b.ID(), len(files))
	return b.Snapshot(), nil
}

// Run starts the batch in the background and returns once it is dispatched.
// The run continues on a fresh context so an HTTP client disconnect does not
// abort extractions already paid for.
func (s *batchService) Run(_ context.Context, id uuid.UUID) error {
	b, err := s.registry.Get(id)
	if err != nil {
		return err
	}
	if b.Snapshot().Status != domain.BatchStatusPending {
		return domain.ErrBatchNotPending
	}

	go func() {
		ctx := context.Background()
		if err := s.scheduler.Run(ctx, b); err != nil {
			log.Printf("batchService.Run: batch %s: %v", id, err)
		}
		s.notify(ctx, b.Snapshot())
	}()
	return nil
}

func (s *batchService) Status(_ context.Context, id uuid.UUID) (domain.Batch, error) {
	b, err := s.registry.Get(id)
	if err != nil {
		return domain.Batch{}, err
	}
	return b.Snapshot(), nil
}

// Cancel reports whether the call actually cancelled the batch; a batch that
// is not running is left untouched and reported as not cancelled.
func (s *batchService) Cancel(_ context.Context, id uuid.UUID) (domain.Batch, bool, error) {
	b, err := s.registry.Get(id)
	if err != nil {
		return domain.Batch{}, false, err
	}
	cancelled := b.Cancel()
	return b.Snapshot(), cancelled, nil
}

func (s *batchService) Delete(_ context.Context, id uuid.UUID) error {
	return s.registry.Delete(id)
}

func (s *batchService) List(_ context.Context) []domain.Batch {
	return s.registry.List()
}

// processFile downloads one batch file and extracts it.
func (s *batchService) processFile(ctx context.Context, file domain.BatchFile) (json.RawMessage, error) {
	data, err := s.storage.Download(ctx, file.Bucket, file.Key)
	if err != nil {
		return nil, fmt.Errorf("downloading %q: %w", file.Filename, err)
	}

	out, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   data,
		ContentType: file.ContentType,
		Kind:        file.Kind,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	return out.StructuredData, nil
}

func (s *batchService) notify(ctx context.Context, snap domain.Batch) {
	if s.notifier == nil || s.recipient == "" {
		return
	}
	if err := s.notifier.BatchFinished(ctx, s.recipient, &snap); err != nil {
		log.Printf("batchService.notify: batch %s notification failed: %v", snap.ID, err)
	}
}
