// Package catalog maps normalized product descriptions to customs tariff
// classification codes for report generation.
package catalog

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// PendingCode marks descriptions with no known classification yet.
const PendingCode = "PENDING"

// Catalog is a concurrency-safe description → tariff code mapping.
// Lookups try an exact match on the normalized description first, then fall
// back to substring containment so that "ladies blouse, red" still resolves
// through the "ladies blouse" entry.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]string
}

// New creates a Catalog pre-seeded with the given entries (may be nil).
func New(seed map[string]string) *Catalog {
	entries := make(map[string]string, len(seed))
	for desc, code := range seed {
		entries[Normalize(desc)] = code
	}
	return &Catalog{entries: entries}
}

// Normalize lowercases a description and collapses internal whitespace.
func Normalize(description string) string {
	return strings.Join(strings.Fields(strings.ToLower(description)), " ")
}

// Lookup returns the tariff code for a description, or PendingCode when no
// entry matches.
func (c *Catalog) Lookup(description string) string {
	normalized := Normalize(description)
	if normalized == "" {
		return PendingCode
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if code, ok := c.entries[normalized]; ok {
		return code
	}
	for key, code := range c.entries {
		if key != "" && strings.Contains(normalized, key) {
			return code
		}
	}
	return PendingCode
}

// Entries returns a copy of the full normalized mapping.
func (c *Catalog) Entries() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// LoadWorkbook merges entries from an Excel workbook into the catalog.
// The first sheet is read; the first row is a header and the first two
// columns hold description and tariff code. Rows with a blank description or
// a PENDING code are skipped. Returns the number of entries merged.
func (c *Catalog) LoadWorkbook(data []byte) (int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	merged := 0
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 2 {
			continue
		}
		desc := Normalize(row[0])
		code := strings.TrimSpace(row[1])
		if desc == "" || code == "" || strings.EqualFold(code, PendingCode) {
			continue
		}
		c.entries[desc] = code
		merged++
	}

	log.Printf("catalog.LoadWorkbook: merged %d entries (total %d)", merged, len(c.entries))
	return merged, nil
}
