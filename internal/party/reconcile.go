// Package party merges identity fragments extracted from different source
// documents into one best-guess record.
package party

import (
	"strings"

	"aforo/internal/domain"
)

// Reconcile merges two partially-overlapping party records: primary comes
// from the bill of lading, secondary from a commercial invoice. The invoice
// is treated as the fresher source for name and phone; the longer of the two
// addresses wins regardless of source, with ties keeping the bill-of-lading
// one. Missing values fall back to the absent placeholder.
func Reconcile(primary, secondary domain.Party) domain.Party {
	priAddr := strings.TrimSpace(primary.Address)
	secAddr := strings.TrimSpace(secondary.Address)

	addr := priAddr
	if len(secAddr) > len(priAddr) {
		addr = secAddr
	}
	if addr == "" {
		addr = domain.NotDetected
	}

	return domain.Party{
		Name:    firstNonEmpty(secondary.Name, primary.Name),
		Address: addr,
		Phone:   firstNonEmpty(secondary.Phone, primary.Phone),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return domain.NotDetected
}
