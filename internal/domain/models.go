package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotDetected is the normalized placeholder for a field that was absent or
// unreadable in the source document.
const NotDetected = "not detected"

// Party identifies one side of a shipment (exporter or consignee).
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// LineItem is a single row of a commercial invoice. The four derived fields
// are written atomically by the allocation engine and are meaningless before
// the first allocation pass.
type LineItem struct {
	PartNumber          string  `json:"part_number"`
	Description         string  `json:"description"`
	DescriptionOriginal string  `json:"description_original"`
	Quantity            float64 `json:"quantity"`
	UnitPrice           float64 `json:"unit_price"`
	TotalPrice          float64 `json:"total_price"`

	FOBValue            float64 `json:"fob_value"`
	FreightProportional float64 `json:"freight_proportional"`
	InsuranceCalculated float64 `json:"insurance_calculated"`
	CIFValueCorrected   float64 `json:"cif_value_corrected"`
}

// InvoiceRecord is one commercial invoice belonging to a shipment.
// TotalValue is the declared invoice total; it is never reconciled against
// the sum of the items.
type InvoiceRecord struct {
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceDate   string     `json:"invoice_date"`
	Incoterm      string     `json:"incoterm"`
	Currency      string     `json:"currency"`
	TotalValue    float64    `json:"total_value"`
	ShippingCost  float64    `json:"shipping_cost_invoice"`
	Exporter      Party      `json:"exporter"`
	Items         []LineItem `json:"items"`
}

// ShipmentRecord is the consolidated result of one bill of lading plus its
// commercial invoices, with parties reconciled and costs allocated.
type ShipmentRecord struct {
	BLNumber         string    `json:"bl_number"`
	BookingNumber    string    `json:"booking_number"`
	ContainerNo      string    `json:"container_no"`
	VesselVoyage     string    `json:"vessel_voyage"`
	PortOfLoading    string    `json:"port_of_loading"`
	PortOfDischarge  string    `json:"port_of_discharge"`
	PlaceOfDelivery  string    `json:"place_of_delivery"`
	DateLadenOnBoard string    `json:"date_laden_on_board"`
	CargoType        string    `json:"cargo_type"`
	FreightCost      float64   `json:"freight_cost"`
	PackagesCount    int       `json:"packages_count"`
	GrossWeight      float64   `json:"gross_weight"`
	GrossMeasurement float64   `json:"gross_measurement"`
	Exporter         Party     `json:"exporter"`
	Consignee        Party     `json:"consignee"`
	Invoices         []InvoiceRecord `json:"invoices"`
	ProcessedAt      time.Time `json:"processed_at"`
}

// ExtractionJob tracks one file inside a batch for its whole lifetime.
// Owned by the batch that created it.
type ExtractionJob struct {
	ID        uuid.UUID       `json:"id"`
	FileIndex int             `json:"file_index"`
	Filename  string          `json:"filename"`
	Status    JobStatus       `json:"status"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// FileError records a per-file extraction failure inside a batch.
type FileError struct {
	FileIndex int    `json:"file_index"`
	Filename  string `json:"filename"`
	Error     string `json:"error"`
}

// BatchFile references one input file of a batch. The bytes live in object
// storage; the scheduler downloads them before calling the extractor.
type BatchFile struct {
	Index       int          `json:"index"`
	Filename    string       `json:"filename"`
	ContentType string       `json:"content_type"`
	Bucket      string       `json:"bucket"`
	Key         string       `json:"key"`
	Kind        DocumentKind `json:"kind"`
}

// Batch is a point-in-time snapshot of a batch's state, safe to serialize
// and hand to status readers at any polling frequency.
type Batch struct {
	ID                 uuid.UUID         `json:"id"`
	Name               string            `json:"name"`
	Status             BatchStatus       `json:"status"`
	TotalFiles         int               `json:"total_files"`
	ProcessedFiles     int               `json:"processed_files"`
	FailedFiles        int               `json:"failed_files"`
	ProgressPercentage float64           `json:"progress_percentage"`
	StartTime          *time.Time        `json:"start_time,omitempty"`
	EndTime            *time.Time        `json:"end_time,omitempty"`
	Results            []json.RawMessage `json:"results"`
	Errors             []FileError       `json:"errors"`
	Jobs               []ExtractionJob   `json:"jobs"`
}

// WorkSession is a persisted snapshot of one shipment record, keyed by an
// opaque session identifier.
type WorkSession struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	SessionName    string          `db:"session_name" json:"session_name"`
	UserNotes      string          `db:"user_notes" json:"user_notes"`
	TotalDocuments int             `db:"total_documents" json:"total_documents"`
	Status         string          `db:"status" json:"status"`
	ShipmentData   json.RawMessage `db:"shipment_data" json:"shipment_data"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// FileMeta stores metadata about an uploaded source document.
type FileMeta struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FileName     string    `db:"file_name" json:"file_name"`
	OriginalName string    `db:"original_name" json:"original_name"`
	FileType     FileType  `db:"file_type" json:"file_type"`
	FileSize     int64     `db:"file_size" json:"file_size"`
	S3Bucket     string    `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string    `db:"s3_key" json:"s3_key"`
	ContentType  string    `db:"content_type" json:"content_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
