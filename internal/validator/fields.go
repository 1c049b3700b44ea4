package validator

import "regexp"

// FieldType tags the semantic type of a document field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldInteger  FieldType = "integer"
	FieldDecimal  FieldType = "decimal"
	FieldCurrency FieldType = "currency"
	FieldSelect   FieldType = "select"
)

// FieldDef declares one named field of the document schema together with its
// type-specific constraints. Zero-valued constraints are not enforced.
type FieldDef struct {
	Name        string
	DisplayName string
	Type        FieldType
	Required    bool
	MinLength   int
	MinValue    *float64
	Pattern     *regexp.Regexp
	Options     []string
	Description string
}

func minValue(v float64) *float64 { return &v }

// Incoterms lists the accepted international trade terms.
var Incoterms = []string{"FOB", "CIF", "EXW", "CFR", "DAP", "DDP"}

// Currencies lists the accepted currency codes.
var Currencies = []string{"USD", "EUR", "COP", "PEN", "MXN", "CLP", "ARS"}

// FieldCatalog is the fixed schema the validator checks documents against.
// Order matters only for stable report output.
var FieldCatalog = []FieldDef{
	{
		Name:        "bl_number",
		DisplayName: "BL Number",
		Type:        FieldText,
		Required:    true,
		Pattern:     regexp.MustCompile(`^[A-Z0-9\-]+$`),
		Description: "uppercase letters, digits and dashes",
	},
	{
		Name:        "exporter",
		DisplayName: "Exporter",
		Type:        FieldText,
		Required:    true,
		MinLength:   2,
		Description: "full exporter name",
	},
	{
		Name:        "consignee",
		DisplayName: "Consignee",
		Type:        FieldText,
		Required:    true,
		MinLength:   2,
		Description: "full consignee name",
	},
	{
		Name:        "freight_cost",
		DisplayName: "Freight Cost",
		Type:        FieldCurrency,
		MinValue:    minValue(0),
		Description: "shipment-level freight value",
	},
	{
		Name:        "packages_count",
		DisplayName: "Packages",
		Type:        FieldInteger,
		MinValue:    minValue(1),
		Description: "number of packages",
	},
	{
		Name:        "gross_weight",
		DisplayName: "Gross Weight",
		Type:        FieldDecimal,
		MinValue:    minValue(0.1),
		Description: "weight in kilograms",
	},
	{
		Name:        "container_no",
		DisplayName: "Container Number",
		Type:        FieldText,
		Pattern:     regexp.MustCompile(`^[A-Z]{4}[0-9]{7}$`),
		Description: "4 letters + 7 digits (e.g. ABCD1234567)",
	},
	{
		Name:        "incoterm",
		DisplayName: "Incoterm",
		Type:        FieldSelect,
		Required:    true,
		Options:     Incoterms,
		Description: "international trade term",
	},
	{
		Name:        "invoice_value",
		DisplayName: "Invoice Value",
		Type:        FieldCurrency,
		MinValue:    minValue(0),
		Description: "declared invoice total",
	},
	{
		Name:        "fob_value",
		DisplayName: "FOB Value",
		Type:        FieldCurrency,
		MinValue:    minValue(0),
		Description: "free on board value",
	},
	{
		Name:        "cif_value",
		DisplayName: "CIF Value",
		Type:        FieldCurrency,
		MinValue:    minValue(0),
		Description: "cost, insurance and freight value",
	},
	{
		Name:        "currency",
		DisplayName: "Currency",
		Type:        FieldSelect,
		Options:     Currencies,
		Description: "currency of the monetary values",
	},
}

// fieldIndex maps field names to their definitions for O(1) lookup.
var fieldIndex = func() map[string]*FieldDef {
	m := make(map[string]*FieldDef, len(FieldCatalog))
	for i := range FieldCatalog {
		m[FieldCatalog[i].Name] = &FieldCatalog[i]
	}
	return m
}()

// LookupField returns the definition for a field name, or nil if the field
// is not part of the schema.
func LookupField(name string) *FieldDef {
	return fieldIndex[name]
}
