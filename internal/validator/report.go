package validator

import (
	"sort"
	"strconv"

	"aforo/internal/domain"
)

// FieldCompleteness tracks how often a field validated and was detected
// across a set of documents.
type FieldCompleteness struct {
	Total    int `json:"total"`
	Valid    int `json:"valid"`
	Detected int `json:"detected"`
}

// ErrorCount pairs a validation message with its occurrence count.
type ErrorCount struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// Report aggregates document validation across a whole processing run.
type Report struct {
	TotalDocuments       int                          `json:"total_documents"`
	ValidDocuments       int                          `json:"valid_documents"`
	DocumentValidityRate float64                      `json:"document_validity_rate"`
	FieldCompleteness    map[string]FieldCompleteness `json:"field_completeness"`
	CommonErrors         []ErrorCount                 `json:"common_errors"`
}

// BuildReport validates every document snapshot and aggregates field
// completeness and the most frequent violation messages.
func BuildReport(documents []map[string]string) Report {
	report := Report{
		FieldCompleteness: make(map[string]FieldCompleteness, len(FieldCatalog)),
	}
	errorCounts := make(map[string]int)

	for _, doc := range documents {
		report.TotalDocuments++
		result := ValidateDocument(doc)
		if result.Valid {
			report.ValidDocuments++
		}

		for name, fr := range result.Fields {
			fc := report.FieldCompleteness[name]
			fc.Total++
			if fr.Valid {
				fc.Valid++
			}
			if fr.Value != domain.NotDetected {
				fc.Detected++
			}
			report.FieldCompleteness[name] = fc
		}

		for _, msg := range result.ErrorMessages {
			errorCounts[msg]++
		}
	}

	if report.TotalDocuments > 0 {
		report.DocumentValidityRate = float64(report.ValidDocuments) / float64(report.TotalDocuments) * 100
	}

	report.CommonErrors = make([]ErrorCount, 0, len(errorCounts))
	for msg, count := range errorCounts {
		report.CommonErrors = append(report.CommonErrors, ErrorCount{Message: msg, Count: count})
	}
	sort.Slice(report.CommonErrors, func(i, j int) bool {
		if report.CommonErrors[i].Count != report.CommonErrors[j].Count {
			return report.CommonErrors[i].Count > report.CommonErrors[j].Count
		}
		return report.CommonErrors[i].Message < report.CommonErrors[j].Message
	})

	return report
}

// ShipmentFields flattens a shipment plus one of its invoices into the field
// snapshot the catalog validates. Derived values are summed over the
// invoice's items.
func ShipmentFields(rec *domain.ShipmentRecord, inv *domain.InvoiceRecord) map[string]string {
	fields := map[string]string{
		"bl_number":      rec.BLNumber,
		"exporter":       rec.Exporter.Name,
		"consignee":      rec.Consignee.Name,
		"freight_cost":   formatFloat(rec.FreightCost),
		"packages_count": strconv.Itoa(rec.PackagesCount),
		"gross_weight":   formatFloat(rec.GrossWeight),
		"container_no":   rec.ContainerNo,
	}

	if inv != nil {
		fobSum, cifSum := 0.0, 0.0
		for _, item := range inv.Items {
			fobSum += item.FOBValue
			cifSum += item.CIFValueCorrected
		}
		fields["incoterm"] = inv.Incoterm
		fields["currency"] = inv.Currency
		fields["invoice_value"] = formatFloat(inv.TotalValue)
		fields["fob_value"] = formatFloat(fobSum)
		fields["cif_value"] = formatFloat(cifSum)
	}

	return fields
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
