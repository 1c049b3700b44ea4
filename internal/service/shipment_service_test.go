package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aforo/internal/domain"
	"aforo/internal/port"
)

const testBL = `{
	"bl_number": "MAEU123456789",
	"booking_number": "BK-44",
	"freight_cost": 100.0,
	"packages_count": 10,
	"gross_weight": 850.5,
	"exporter": {"name": "ACME Trading Co.", "address": "12 Harbor Rd", "phone": ""},
	"consignee": {"name": "Importadora Sol", "address": "Av. Central 456, Bogota", "phone": "+57 1 555 0000"}
}`

const testInvoiceA = `{
	"invoice_number": "INV-A",
	"incoterm": "FOB",
	"currency": "USD",
	"total_value": 30.0,
	"exporter": {"name": "ACME Trading Company Ltd.", "address": "12 Harbor Road, Qingdao, Shandong, China", "phone": "+86 532 555"},
	"items": [
		{"part_number": "P-1", "description": "Ladies blouse", "quantity": 10, "unit_price": 3.0, "total_price": 30.0}
	]
}`

const testInvoiceB = `{
	"invoice_number": "INV-B",
	"incoterm": "FOB",
	"currency": "USD",
	"total_value": 70.0,
	"exporter": {"name": "", "address": "", "phone": ""},
	"items": [
		{"part_number": "P-2", "description": "Steel pipe", "quantity": 7, "unit_price": 10.0, "total_price": 70.0}
	]
}`

// fakeExtractor replays canned outputs: the bill of lading payload for BL
// inputs and successive invoice payloads (or errors) for invoice inputs.
type fakeExtractor struct {
	bl          string
	blErr       error
	invoices    []string
	invoiceErrs []error
	invoiceIdx  int
}

func (f *fakeExtractor) Extract(_ context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if input.Kind == domain.DocumentKindBillOfLading {
		if f.blErr != nil {
			return nil, f.blErr
		}
		return &port.ExtractOutput{StructuredData: json.RawMessage(f.bl), ModelUsed: "fake"}, nil
	}

	i := f.invoiceIdx
	f.invoiceIdx++
	if i < len(f.invoiceErrs) && f.invoiceErrs[i] != nil {
		return nil, f.invoiceErrs[i]
	}
	return &port.ExtractOutput{StructuredData: json.RawMessage(f.invoices[i]), ModelUsed: "fake"}, nil
}

type fakeTranslator struct {
	prefix string
	err    error
	calls  []string
}

func (f *fakeTranslator) Translate(_ context.Context, text string) (string, error) {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return "", f.err
	}
	return f.prefix + text, nil
}

func processInput(invoices int) ProcessShipmentInput {
	in := ProcessShipmentInput{
		BillOfLading: DocumentInput{Filename: "bl.pdf", ContentType: "application/pdf", FileBytes: []byte("%PDF")},
	}
	for i := 0; i < invoices; i++ {
		in.Invoices = append(in.Invoices, DocumentInput{
			Filename:    "invoice.pdf",
			ContentType: "application/pdf",
			FileBytes:   []byte("%PDF"),
		})
	}
	return in
}

func TestShipmentProcess_FullPipeline(t *testing.T) {
	ext := &fakeExtractor{bl: testBL, invoices: []string{testInvoiceA, testInvoiceB}}
	tr := &fakeTranslator{prefix: "es: "}
	svc := NewShipmentService(ext, tr)

	result, err := svc.Process(context.Background(), processInput(2))
	require.NoError(t, err)
	require.True(t, result.Allocated)
	assert.Empty(t, result.InvoiceErrors)

	rec := result.Shipment
	assert.Equal(t, "MAEU123456789", rec.BLNumber)
	require.Len(t, rec.Invoices, 2)

	// Exporter merged from bill of lading and first invoice: invoice name
	// and phone win, the longer address wins.
	assert.Equal(t, "ACME Trading Company Ltd.", rec.Exporter.Name)
	assert.Equal(t, "12 Harbor Road, Qingdao, Shandong, China", rec.Exporter.Address)
	assert.Equal(t, "+86 532 555", rec.Exporter.Phone)
	assert.Equal(t, "Importadora Sol", rec.Consignee.Name)

	// Freight 100 prorated 30/70 across the two items.
	itemA := rec.Invoices[0].Items[0]
	assert.InDelta(t, 30.0, itemA.FOBValue, 1e-9)
	assert.InDelta(t, 30.0, itemA.FreightProportional, 1e-9)
	assert.InDelta(t, 0.45, itemA.InsuranceCalculated, 1e-9)
	assert.InDelta(t, 60.45, itemA.CIFValueCorrected, 1e-9)

	itemB := rec.Invoices[1].Items[0]
	assert.InDelta(t, 70.0, itemB.FreightProportional, 1e-9)
	assert.InDelta(t, 141.05, itemB.CIFValueCorrected, 1e-9)

	// Descriptions translated, originals preserved.
	assert.Equal(t, "es: Ladies blouse", itemA.Description)
	assert.Equal(t, "Ladies blouse", itemA.DescriptionOriginal)
	assert.False(t, rec.ProcessedAt.IsZero())
}

func TestShipmentProcess_InvoiceFailureSkipsAllocation(t *testing.T) {
	ext := &fakeExtractor{
		bl:          testBL,
		invoices:    []string{testInvoiceA, ""},
		invoiceErrs: []error{nil, errors.New("unreadable scan")},
	}
	svc := NewShipmentService(ext, &fakeTranslator{prefix: "es: "})

	result, err := svc.Process(context.Background(), processInput(2))
	require.NoError(t, err)

	assert.False(t, result.Allocated)
	require.Len(t, result.InvoiceErrors, 1)
	assert.Equal(t, 1, result.InvoiceErrors[0].FileIndex)
	assert.Equal(t, "unreadable scan", result.InvoiceErrors[0].Error)

	// The good invoice is kept but carries no derived values.
	require.Len(t, result.Shipment.Invoices, 1)
	assert.Zero(t, result.Shipment.Invoices[0].Items[0].CIFValueCorrected)
	// Parties stay as extracted from the bill of lading.
	assert.Equal(t, "ACME Trading Co.", result.Shipment.Exporter.Name)
}

func TestShipmentProcess_BillOfLadingFailure(t *testing.T) {
	ext := &fakeExtractor{blErr: errors.New("no candidates")}
	svc := NewShipmentService(ext, nil)

	_, err := svc.Process(context.Background(), processInput(1))
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestShipmentProcess_TranslationFailureKeepsOriginal(t *testing.T) {
	ext := &fakeExtractor{bl: testBL, invoices: []string{testInvoiceA, testInvoiceB}}
	tr := &fakeTranslator{err: errors.New("quota exhausted")}
	svc := NewShipmentService(ext, tr)

	result, err := svc.Process(context.Background(), processInput(2))
	require.NoError(t, err)

	item := result.Shipment.Invoices[0].Items[0]
	assert.Equal(t, "Ladies blouse", item.Description)
	assert.Equal(t, "Ladies blouse", item.DescriptionOriginal)
}

func TestShipmentProcess_AbsentDescriptionNotTranslated(t *testing.T) {
	invoice := `{"invoice_number":"INV-C","total_value":5,"items":[{"description":"not detected","quantity":1,"unit_price":5,"total_price":5}]}`
	ext := &fakeExtractor{bl: testBL, invoices: []string{invoice}}
	tr := &fakeTranslator{prefix: "es: "}
	svc := NewShipmentService(ext, tr)

	_, err := svc.Process(context.Background(), processInput(1))
	require.NoError(t, err)
	assert.Empty(t, tr.calls)
}

func TestShipmentRecompute(t *testing.T) {
	ext := &fakeExtractor{bl: testBL, invoices: []string{testInvoiceA, testInvoiceB}}
	svc := NewShipmentService(ext, nil)

	result, err := svc.Process(context.Background(), processInput(2))
	require.NoError(t, err)

	rec := result.Shipment
	rec.FreightCost = 200.0

	updated := svc.Recompute(rec)
	assert.InDelta(t, 60.0, updated.Invoices[0].Items[0].FreightProportional, 1e-9)
	// The source record keeps its previous allocation.
	assert.InDelta(t, 30.0, rec.Invoices[0].Items[0].FreightProportional, 1e-9)
}

func TestShipmentValidate(t *testing.T) {
	ext := &fakeExtractor{bl: testBL, invoices: []string{testInvoiceA}}
	svc := NewShipmentService(ext, nil)

	result, err := svc.Process(context.Background(), processInput(1))
	require.NoError(t, err)

	report := svc.Validate(result.Shipment)
	assert.Equal(t, 1, report.TotalDocuments)
	assert.NotEmpty(t, report.FieldCompleteness)
}
