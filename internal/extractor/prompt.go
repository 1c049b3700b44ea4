package extractor

import "fmt"

// BuildBillOfLadingPrompt returns the extraction prompt for bill of lading documents.
func BuildBillOfLadingPrompt() string {
	return `You are a document data extraction assistant. Analyze the provided bill of lading and extract ALL key fields for an import customs report.

IMPORTANT INSTRUCTIONS:
- Numeric values (freight_cost, packages_count, gross_weight, gross_measurement) must be numbers (int or float), not strings.
- For "exporter" and "consignee", extract the full company name, the complete postal address, and the phone number when present.
- If a field is not present in the document, use null as the value.

Return ONLY valid JSON with no markdown formatting, no code fences, and no explanation: just the raw JSON object.

The JSON object must follow this schema:
{
  "bl_number": "",
  "booking_number": "",
  "container_no": "",
  "vessel_voyage": "",
  "port_of_loading": "",
  "port_of_discharge": "",
  "place_of_delivery": "",
  "date_laden_on_board": "",
  "cargo_type": "",
  "freight_cost": 0.0,
  "packages_count": 0,
  "gross_weight": 0.0,
  "gross_measurement": 0.0,
  "exporter": { "name": "", "address": "", "phone": "" },
  "consignee": { "name": "", "address": "", "phone": "" }
}`
}

// BuildInvoicePrompt returns the extraction prompt for commercial invoice documents.
func BuildInvoicePrompt() string {
	return `You are a document data extraction assistant. Analyze the provided commercial invoice and extract ALL key fields and the full line item table for an import customs report.

IMPORTANT INSTRUCTIONS:
- INCOTERM: search with high priority for the incoterm (FOB, CIF, EXW, ...). If not found, set its value to "NOT_FOUND".
- CURRENCY: extract the ISO currency code (USD, EUR, ...).
- ITEMS: the "description" field must be a readable consolidation of product description, style and color. Extract EVERY line item; do not skip, summarize, or omit any. Numbers must be extracted as numbers (int/float).
- If a field is not present in the document, use null as the value.

Return ONLY valid JSON with no markdown formatting, no code fences, and no explanation: just the raw JSON object.

The JSON object must follow this schema:
{
  "invoice_number": "",
  "invoice_date": "",
  "incoterm": "",
  "currency": "",
  "total_value": 0.0,
  "shipping_cost_invoice": 0.0,
  "exporter": { "name": "", "address": "", "phone": "" },
  "items": [
    {
      "part_number": "",
      "description": "",
      "quantity": 0,
      "unit_price": 0.0,
      "total_price": 0.0
    }
  ]
}`
}

// BuildTranslationPrompt returns the prompt used to translate a product
// description into Spanish for the customs filing.
func BuildTranslationPrompt(text string) string {
	return fmt.Sprintf("Translate the following product description into Spanish. Return ONLY the translation, with no quotes and no explanation: %q", text)
}
