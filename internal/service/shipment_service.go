package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"aforo/internal/allocation"
	"aforo/internal/domain"
	"aforo/internal/party"
	"aforo/internal/port"
	"aforo/internal/validator"
)

// DocumentInput is one source document handed to the extraction pipeline.
type DocumentInput struct {
	Filename    string
	ContentType string
	FileBytes   []byte
}

// ProcessShipmentInput is the DTO for full shipment processing requests:
// one bill of lading plus its commercial invoices.
type ProcessShipmentInput struct {
	BillOfLading DocumentInput
	Invoices     []DocumentInput
}

// ProcessShipmentResult bundles the consolidated record with per-invoice
// extraction failures. Allocated is false when any invoice failed; the
// record then carries only the successfully extracted data, with no
// translation, party reconciliation, or cost allocation applied.
type ProcessShipmentResult struct {
	Shipment      *domain.ShipmentRecord `json:"shipment"`
	InvoiceErrors []domain.FileError     `json:"invoice_errors"`
	Allocated     bool                   `json:"allocated"`
}

// ShipmentService defines the shipment extraction and consolidation contract.
type ShipmentService interface {
	Process(ctx context.Context, input ProcessShipmentInput) (*ProcessShipmentResult, error)
	Recompute(rec *domain.ShipmentRecord) *domain.ShipmentRecord
	Validate(rec *domain.ShipmentRecord) validator.Report
}

type shipmentService struct {
	extractor  port.Extractor
	translator port.Translator
}

// NewShipmentService creates a new ShipmentService implementation.
func NewShipmentService(extractor port.Extractor, translator port.Translator) ShipmentService {
	return &shipmentService{
		extractor:  extractor,
		translator: translator,
	}
}

func (s *shipmentService) Process(ctx context.Context, input ProcessShipmentInput) (*ProcessShipmentResult, error) {
	log.Printf("shipmentService.Process: extracting bill of lading %q with %d invoices",
		input.BillOfLading.Filename, len(input.Invoices))

	rec, err := s.extractBillOfLading(ctx, input.BillOfLading)
	if err != nil {
		return nil, fmt.Errorf("%w: bill of lading %q: %v", domain.ErrExtractionFailed, input.BillOfLading.Filename, err)
	}

	var invoiceErrors []domain.FileError
	invoices := make([]domain.InvoiceRecord, 0, len(input.Invoices))
	for i, doc := range input.Invoices {
		inv, err := s.extractInvoice(ctx, doc)
		if err != nil {
			log.Printf("shipmentService.Process: invoice %d (%s) failed: %v", i, doc.Filename, err)
			invoiceErrors = append(invoiceErrors, domain.FileError{
				FileIndex: i,
				Filename:  doc.Filename,
				Error:     err.Error(),
			})
			continue
		}
		invoices = append(invoices, *inv)
	}

	rec.Invoices = invoices
	rec.ProcessedAt = time.Now().UTC()

	// Consolidation runs only on a fully extracted document set. With any
	// invoice missing, proration shares would be wrong for every item.
	if len(invoiceErrors) > 0 || len(invoices) == 0 {
		return &ProcessShipmentResult{
			Shipment:      rec,
			InvoiceErrors: invoiceErrors,
			Allocated:     false,
		}, nil
	}

	s.translateItems(ctx, invoices)

	rec.Exporter = party.Reconcile(rec.Exporter, invoices[0].Exporter)
	rec.Invoices = allocation.Allocate(rec.FreightCost, invoices)

	return &ProcessShipmentResult{
		Shipment:  rec,
		Allocated: true,
	}, nil
}

// Recompute reruns cost allocation over the record's invoices, picking up
// user edits to quantities, prices, or the freight cost. Safe to call any
// number of times.
func (s *shipmentService) Recompute(rec *domain.ShipmentRecord) *domain.ShipmentRecord {
	out := *rec
	out.Invoices = allocation.Allocate(rec.FreightCost, rec.Invoices)
	return &out
}

// Validate flattens the record into per-invoice field documents and builds
// an aggregate validation report.
func (s *shipmentService) Validate(rec *domain.ShipmentRecord) validator.Report {
	var docs []map[string]string
	if len(rec.Invoices) == 0 {
		docs = append(docs, validator.ShipmentFields(rec, nil))
	}
	for i := range rec.Invoices {
		docs = append(docs, validator.ShipmentFields(rec, &rec.Invoices[i]))
	}
	return validator.BuildReport(docs)
}

func (s *shipmentService) extractBillOfLading(ctx context.Context, doc DocumentInput) (*domain.ShipmentRecord, error) {
	out, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   doc.FileBytes,
		ContentType: doc.ContentType,
		Kind:        domain.DocumentKindBillOfLading,
	})
	if err != nil {
		return nil, err
	}

	var rec domain.ShipmentRecord
	if err := json.Unmarshal(out.StructuredData, &rec); err != nil {
		return nil, fmt.Errorf("decoding bill of lading fields: %w", err)
	}
	return &rec, nil
}

func (s *shipmentService) extractInvoice(ctx context.Context, doc DocumentInput) (*domain.InvoiceRecord, error) {
	out, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   doc.FileBytes,
		ContentType: doc.ContentType,
		Kind:        domain.DocumentKindInvoice,
	})
	if err != nil {
		return nil, err
	}

	var inv domain.InvoiceRecord
	if err := json.Unmarshal(out.StructuredData, &inv); err != nil {
		return nil, fmt.Errorf("decoding invoice fields: %w", err)
	}
	return &inv, nil
}

// translateItems rewrites item descriptions into Spanish, keeping the
// original text alongside. A failed translation degrades to the original.
func (s *shipmentService) translateItems(ctx context.Context, invoices []domain.InvoiceRecord) {
	if s.translator == nil {
		return
	}
	for i := range invoices {
		for j := range invoices[i].Items {
			item := &invoices[i].Items[j]
			item.DescriptionOriginal = item.Description

			if validator.IsAbsent(item.Description) {
				continue
			}

			translated, err := s.translator.Translate(ctx, item.Description)
			if err != nil || translated == "" {
				log.Printf("shipmentService.translateItems: translation failed for %q: %v", item.Description, err)
				continue
			}
			item.Description = translated
		}
	}
}
