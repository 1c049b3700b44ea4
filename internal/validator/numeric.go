package validator

import (
	"errors"
	"strconv"
	"strings"
)

var errNotNumeric = errors.New("value is not numeric")

// ParseDecimal parses loosely-formatted numeric input as produced by OCR and
// mixed-locale documents. It tolerates currency symbols, stray text, and both
// thousands/decimal separator conventions:
//
//	"1,234.56"  → 1234.56   (US convention)
//	"1.234,56"  → 1234.56   (European convention)
//	"1234,56"   → 1234.56   (single comma with short tail is a decimal)
//	"$1,234.56" → 1234.56   (symbols stripped)
//	"1.234.567" → 1234567   (repeated separators collapse unless the last
//	                         group is at most two digits)
func ParseDecimal(raw string) (float64, error) {
	cleaned := stripNonNumeric(raw)
	if cleaned == "" || cleaned == "-" {
		return 0, errNotNumeric
	}

	hasDot := strings.Contains(cleaned, ".")
	hasComma := strings.Contains(cleaned, ",")

	switch {
	case hasDot && hasComma:
		// Both present: the separator that occurs last is the decimal point,
		// the other is a thousands separator.
		if strings.LastIndex(cleaned, ".") > strings.LastIndex(cleaned, ",") {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}

	case hasComma && strings.Count(cleaned, ",") == 1 && tailLen(cleaned, ",") <= 2:
		cleaned = strings.Replace(cleaned, ",", ".", 1)

	case hasDot && !hasComma && strings.Count(cleaned, ".") == 1:
		// Already in canonical form.

	case hasDot || hasComma:
		cleaned = collapseSeparators(cleaned)
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, errNotNumeric
	}
	return v, nil
}

// ParseInteger parses numeric input like ParseDecimal but additionally
// requires the value to be whole.
func ParseInteger(raw string) (int, error) {
	v, err := ParseDecimal(raw)
	if err != nil {
		return 0, err
	}
	n := int(v)
	if float64(n) != v {
		return 0, errNotNumeric
	}
	return n, nil
}

// stripNonNumeric keeps only digits, separators, and the minus sign.
func stripNonNumeric(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// tailLen returns the length of the substring after the last occurrence of sep.
func tailLen(s, sep string) int {
	return len(s) - strings.LastIndex(s, sep) - 1
}

// collapseSeparators removes every separator except a trailing group of at
// most two digits, which becomes the decimal point.
func collapseSeparators(s string) string {
	last := strings.LastIndexAny(s, ".,")
	tail := s[last+1:]

	drop := func(v string) string {
		v = strings.ReplaceAll(v, ",", "")
		return strings.ReplaceAll(v, ".", "")
	}

	if len(tail) <= 2 {
		return drop(s[:last]) + "." + tail
	}
	return drop(s)
}
