package main

import (
	"fmt"
	"log"

	"aforo/internal/batch"
	"aforo/internal/catalog"
	"aforo/internal/config"
	"aforo/internal/email/noop"
	"aforo/internal/email/ses"
	"aforo/internal/extractor"
	"aforo/internal/extractor/gemini"
	"aforo/internal/handler"
	"aforo/internal/port"
	"aforo/internal/repository/postgres"
	"aforo/internal/router"
	"aforo/internal/service"
	s3storage "aforo/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	sessionRepo := postgres.NewSessionRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize extraction chain
	ext, translator, err := buildExtractor(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}

	notifier, err := buildNotifier(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}

	cat := catalog.New(nil)

	// Initialize services
	shipmentSvc := service.NewShipmentService(ext, translator)
	batchSvc := service.NewBatchService(batch.NewRegistry(), s3Client, ext, notifier, &cfg.Batch, &cfg.Email)
	sessionSvc := service.NewSessionService(sessionRepo)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)

	// Initialize handlers
	shipmentH := handler.NewShipmentHandler(shipmentSvc)
	batchH := handler.NewBatchHandler(batchSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	fileH := handler.NewFileHandler(fileSvc)
	catalogH := handler.NewCatalogHandler(cat)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg.API.Key, shipmentH, batchH, sessionH, fileH, catalogH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// buildExtractor assembles the provider fallback chain. The translator is
// taken from the primary provider when it supports translation.
func buildExtractor(cfg *config.ExtractorConfig) (port.Extractor, port.Translator, error) {
	extractor.RegisterProvider("gemini", func(pc *config.ExtractorProviderConfig) (port.Extractor, error) {
		return gemini.NewExtractor(pc), nil
	})

	primary, err := extractor.NewExtractor(&cfg.Primary)
	if err != nil {
		return nil, nil, err
	}

	extractors := []port.Extractor{primary}
	names := []string{cfg.Primary.Provider}

	for _, pc := range []*config.ExtractorProviderConfig{cfg.SecondaryConfig(), cfg.TertiaryConfig()} {
		if pc == nil {
			continue
		}
		e, err := extractor.NewExtractor(pc)
		if err != nil {
			return nil, nil, err
		}
		extractors = append(extractors, e)
		names = append(names, pc.Provider)
	}

	translator, _ := primary.(port.Translator)

	if len(extractors) == 1 {
		return primary, translator, nil
	}
	return extractor.NewFallbackExtractor(extractors, names), translator, nil
}

func buildNotifier(cfg *config.EmailConfig) (port.Notifier, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESNotifier(cfg.Region, cfg.FromAddress, cfg.FromName)
	default:
		return noop.NewNoopNotifier(), nil
	}
}
