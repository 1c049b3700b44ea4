// Package validator type-checks and normalizes the raw field values of
// shipment documents against a fixed, declarative field catalog.
package validator

import (
	"fmt"
	"strings"

	"aforo/internal/domain"
)

// absentMarkers are raw strings that normalize to the absent sentinel,
// compared case-insensitively after trimming.
var absentMarkers = map[string]bool{
	"":             true,
	"not detected": true,
	"none":         true,
	"null":         true,
}

// FieldResult is the outcome of validating one field. Value holds the
// normalized typed value, the absent sentinel when the input was missing, or
// the original raw string when the input was malformed (so callers can
// distinguish "absent" from "unparseable").
type FieldResult struct {
	Valid    bool     `json:"valid"`
	Value    any      `json:"value"`
	Messages []string `json:"messages"`
}

// DocumentResult aggregates per-field results for one document snapshot.
type DocumentResult struct {
	Valid          bool                   `json:"valid"`
	Fields         map[string]FieldResult `json:"fields"`
	ValidFields    int                    `json:"valid_fields"`
	TotalFields    int                    `json:"total_fields"`
	CompletionRate float64                `json:"completion_rate"`
	ErrorMessages  []string               `json:"error_messages"`
}

// IsAbsent reports whether a raw value normalizes to the absent sentinel.
func IsAbsent(raw string) bool {
	return absentMarkers[strings.ToLower(strings.TrimSpace(raw))]
}

// ValidateField checks one raw value against its field definition. Fields
// outside the catalog pass through unchanged. Constraint checks run only on
// values that parsed; a type-conversion failure short-circuits them.
func ValidateField(name, raw string) FieldResult {
	def := LookupField(name)
	if def == nil {
		return FieldResult{Valid: true, Value: raw, Messages: []string{}}
	}

	if IsAbsent(raw) {
		res := FieldResult{Valid: true, Value: domain.NotDetected, Messages: []string{}}
		if def.Required {
			res.Valid = false
			res.Messages = append(res.Messages, fmt.Sprintf("required field: %s", def.DisplayName))
		}
		return res
	}

	value := strings.TrimSpace(raw)

	switch def.Type {
	case FieldText:
		return validateText(def, value)
	case FieldInteger:
		return validateInteger(def, value)
	case FieldDecimal, FieldCurrency:
		return validateDecimal(def, value)
	case FieldSelect:
		return validateSelect(def, value)
	default:
		return FieldResult{Valid: true, Value: value, Messages: []string{}}
	}
}

// ValidateDocument validates every catalog field against the given snapshot.
// Missing keys are treated as absent values.
func ValidateDocument(fields map[string]string) DocumentResult {
	out := DocumentResult{
		Valid:         true,
		Fields:        make(map[string]FieldResult, len(FieldCatalog)),
		TotalFields:   len(FieldCatalog),
		ErrorMessages: []string{},
	}

	for i := range FieldCatalog {
		def := &FieldCatalog[i]
		res := ValidateField(def.Name, fields[def.Name])
		out.Fields[def.Name] = res
		if res.Valid {
			out.ValidFields++
		} else {
			out.Valid = false
			for _, msg := range res.Messages {
				out.ErrorMessages = append(out.ErrorMessages, fmt.Sprintf("%s: %s", def.DisplayName, msg))
			}
		}
	}

	if out.TotalFields > 0 {
		out.CompletionRate = float64(out.ValidFields) / float64(out.TotalFields) * 100
	}
	return out
}

func validateText(def *FieldDef, value string) FieldResult {
	res := FieldResult{Valid: true, Value: value, Messages: []string{}}
	if def.MinLength > 0 && len(value) < def.MinLength {
		res.Valid = false
		res.Messages = append(res.Messages, fmt.Sprintf("minimum %d characters", def.MinLength))
	}
	if def.Pattern != nil && !def.Pattern.MatchString(value) {
		res.Valid = false
		res.Messages = append(res.Messages, fmt.Sprintf("invalid format: %s", def.Description))
	}
	return res
}

func validateInteger(def *FieldDef, value string) FieldResult {
	n, err := ParseInteger(value)
	if err != nil {
		return FieldResult{Valid: false, Value: value, Messages: []string{"must be a whole number"}}
	}
	res := FieldResult{Valid: true, Value: n, Messages: []string{}}
	if def.MinValue != nil && float64(n) < *def.MinValue {
		res.Valid = false
		res.Messages = append(res.Messages, fmt.Sprintf("minimum value: %v", *def.MinValue))
	}
	return res
}

func validateDecimal(def *FieldDef, value string) FieldResult {
	v, err := ParseDecimal(value)
	if err != nil {
		msg := "must be a decimal number"
		if def.Type == FieldCurrency {
			msg = "must be a valid monetary value"
		}
		return FieldResult{Valid: false, Value: value, Messages: []string{msg}}
	}
	res := FieldResult{Valid: true, Value: v, Messages: []string{}}
	if def.MinValue != nil && v < *def.MinValue {
		res.Valid = false
		res.Messages = append(res.Messages, fmt.Sprintf("minimum value: %v", *def.MinValue))
	}
	return res
}

func validateSelect(def *FieldDef, value string) FieldResult {
	for _, opt := range def.Options {
		if value == opt {
			return FieldResult{Valid: true, Value: value, Messages: []string{}}
		}
	}
	return FieldResult{
		Valid: false,
		Value: value,
		Messages: []string{
			fmt.Sprintf("must be one of: %s", strings.Join(def.Options, ", ")),
		},
	}
}
