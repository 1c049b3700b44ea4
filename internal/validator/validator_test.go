package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aforo/internal/domain"
)

func TestParseDecimalSeparatorConventions(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"1,234.56", 1234.56},
		{"1.234,56", 1234.56},
		{"1234,56", 1234.56},
		{"$1,234.56", 1234.56},
		{"1234.56", 1234.56},
		{"USD 2,500", 2500},
		{"1.234.567", 1234567},
		{"1,234,567", 1234567},
		{"1,234,567.89", 1234567.89},
		{"1.234.567,89", 1234567.89},
		{"1,234,56", 1234.56},
		{"-42.5", -42.5},
		{"  99 ", 99},
	}

	for _, tc := range cases {
		got, err := ParseDecimal(tc.raw)
		require.NoError(t, err, "input %q", tc.raw)
		assert.InDelta(t, tc.want, got, 1e-9, "input %q", tc.raw)
	}
}

func TestParseDecimalRejectsNonNumeric(t *testing.T) {
	for _, raw := range []string{"", "abc", "-", "..", "N/A"} {
		_, err := ParseDecimal(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestParseIntegerRejectsFractions(t *testing.T) {
	n, err := ParseInteger("1,200")
	require.NoError(t, err)
	assert.Equal(t, 1200, n)

	_, err = ParseInteger("3,5")
	assert.Error(t, err)
}

func TestValidateFieldAbsentMarkers(t *testing.T) {
	for _, raw := range []string{"", "  ", "not detected", "None", "NULL"} {
		res := ValidateField("freight_cost", raw)
		assert.True(t, res.Valid, "optional absent field should be valid (%q)", raw)
		assert.Equal(t, domain.NotDetected, res.Value)
	}

	res := ValidateField("bl_number", "null")
	assert.False(t, res.Valid, "required absent field is invalid")
	assert.Equal(t, domain.NotDetected, res.Value)
	assert.NotEmpty(t, res.Messages)
}

func TestValidateFieldMalformedNumberKeepsRawValue(t *testing.T) {
	res := ValidateField("gross_weight", "heavy")
	assert.False(t, res.Valid)
	// Malformed input keeps the raw string so callers can distinguish it
	// from an absent value.
	assert.Equal(t, "heavy", res.Value)
}

func TestValidateFieldConstraintShortCircuitOnParseFailure(t *testing.T) {
	res := ValidateField("packages_count", "many")
	assert.False(t, res.Valid)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "must be a whole number", res.Messages[0])
}

func TestValidateFieldMinValue(t *testing.T) {
	res := ValidateField("packages_count", "0")
	assert.False(t, res.Valid)

	res = ValidateField("packages_count", "3")
	assert.True(t, res.Valid)
	assert.Equal(t, 3, res.Value)

	res = ValidateField("gross_weight", "0.05")
	assert.False(t, res.Valid)
}

func TestValidateFieldPattern(t *testing.T) {
	assert.True(t, ValidateField("container_no", "ABCD1234567").Valid)
	assert.False(t, ValidateField("container_no", "AB123").Valid)
	assert.True(t, ValidateField("bl_number", "MAEU-12345").Valid)
	assert.False(t, ValidateField("bl_number", "maeu 12345").Valid)
}

func TestValidateFieldSelect(t *testing.T) {
	assert.True(t, ValidateField("incoterm", "FOB").Valid)
	assert.False(t, ValidateField("incoterm", "fob").Valid)
	assert.False(t, ValidateField("incoterm", "NOT_FOUND").Valid)
	assert.True(t, ValidateField("currency", "USD").Valid)
}

func TestValidateFieldUnknownNamePassesThrough(t *testing.T) {
	res := ValidateField("vessel_voyage", "MSC AUREA / 22E")
	assert.True(t, res.Valid)
	assert.Equal(t, "MSC AUREA / 22E", res.Value)
}

func TestValidateDocumentCompletionRate(t *testing.T) {
	doc := map[string]string{
		"bl_number":      "MAEU12345",
		"exporter":       "Shanghai Textiles Ltd",
		"consignee":      "Importadora SA",
		"freight_cost":   "1,250.00",
		"packages_count": "14",
		"gross_weight":   "820.5",
		"container_no":   "MSKU1234567",
		"incoterm":       "FOB",
		"invoice_value":  "12.500,00",
		"fob_value":      "12500",
		"cif_value":      "13780.25",
		"currency":       "USD",
	}

	result := ValidateDocument(doc)
	assert.True(t, result.Valid)
	assert.Equal(t, len(FieldCatalog), result.ValidFields)
	assert.InDelta(t, 100, result.CompletionRate, 1e-9)
	assert.Empty(t, result.ErrorMessages)

	doc["incoterm"] = "NOT_FOUND"
	doc["packages_count"] = "zero"
	result = ValidateDocument(doc)
	assert.False(t, result.Valid)
	assert.Equal(t, len(FieldCatalog)-2, result.ValidFields)
	assert.InDelta(t, float64(len(FieldCatalog)-2)/float64(len(FieldCatalog))*100, result.CompletionRate, 1e-9)
	assert.Len(t, result.ErrorMessages, 2)
}

func TestBuildReportAggregates(t *testing.T) {
	good := map[string]string{
		"bl_number": "BL-1", "exporter": "Exporter A", "consignee": "Consignee A",
		"incoterm": "CIF", "currency": "USD",
	}
	bad := map[string]string{
		"bl_number": "bl one", "exporter": "E", "consignee": "Consignee B",
		"incoterm": "CIF",
	}

	report := BuildReport([]map[string]string{good, bad})

	assert.Equal(t, 2, report.TotalDocuments)
	assert.Equal(t, 1, report.ValidDocuments)
	assert.InDelta(t, 50, report.DocumentValidityRate, 1e-9)

	blStats := report.FieldCompleteness["bl_number"]
	assert.Equal(t, 2, blStats.Total)
	assert.Equal(t, 1, blStats.Valid)
	assert.Equal(t, 2, blStats.Detected)

	freightStats := report.FieldCompleteness["freight_cost"]
	assert.Equal(t, 0, freightStats.Detected, "absent fields are not detected")

	require.NotEmpty(t, report.CommonErrors)
	for i := 1; i < len(report.CommonErrors); i++ {
		assert.GreaterOrEqual(t, report.CommonErrors[i-1].Count, report.CommonErrors[i].Count)
	}
}

func TestShipmentFieldsFlattening(t *testing.T) {
	rec := &domain.ShipmentRecord{
		BLNumber:      "BL-77",
		FreightCost:   100,
		PackagesCount: 4,
		GrossWeight:   55.5,
		ContainerNo:   "MSKU1234567",
		Exporter:      domain.Party{Name: "Exporter A"},
		Consignee:     domain.Party{Name: "Consignee A"},
	}
	inv := &domain.InvoiceRecord{
		Incoterm:   "FOB",
		Currency:   "USD",
		TotalValue: 99.5,
		Items: []domain.LineItem{
			{FOBValue: 30, CIFValueCorrected: 31},
			{FOBValue: 70, CIFValueCorrected: 72},
		},
	}

	fields := ShipmentFields(rec, inv)

	assert.Equal(t, "BL-77", fields["bl_number"])
	assert.Equal(t, "100", fields["freight_cost"])
	assert.Equal(t, "4", fields["packages_count"])
	assert.Equal(t, "100", fields["fob_value"])
	assert.Equal(t, "103", fields["cif_value"])
	assert.Equal(t, "99.5", fields["invoice_value"])
}
