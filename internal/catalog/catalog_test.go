package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLookupExactMatch(t *testing.T) {
	c := New(map[string]string{"Ladies Blouse": "6106.20.00"})

	assert.Equal(t, "6106.20.00", c.Lookup("ladies blouse"))
	assert.Equal(t, "6106.20.00", c.Lookup("  LADIES   BLOUSE  "))
}

func TestLookupSubstringFallback(t *testing.T) {
	c := New(map[string]string{"ladies blouse": "6106.20.00"})

	assert.Equal(t, "6106.20.00", c.Lookup("ladies blouse, red cotton"))
}

func TestLookupUnknownReturnsPending(t *testing.T) {
	c := New(map[string]string{"ladies blouse": "6106.20.00"})

	assert.Equal(t, PendingCode, c.Lookup("industrial bearings"))
	assert.Equal(t, PendingCode, c.Lookup(""))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ladies blouse", Normalize("  Ladies \t BLOUSE "))
	assert.Equal(t, "", Normalize("   "))
}

func TestLoadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"Description", "Tariff Code"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"Ladies Blouse", "6106.20.00"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]string{"Steel Pipe", "7306.30.00"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]string{"", "9999.99.99"}))
	require.NoError(t, f.SetSheetRow(sheet, "A5", &[]string{"Unclassified Widget", "PENDING"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	c := New(nil)
	merged, err := c.LoadWorkbook(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, 2, merged)
	assert.Equal(t, "6106.20.00", c.Lookup("ladies blouse"))
	assert.Equal(t, "7306.30.00", c.Lookup("steel pipe"))
	assert.Equal(t, PendingCode, c.Lookup("unclassified widget"))
}

func TestLoadWorkbookRejectsGarbage(t *testing.T) {
	c := New(nil)
	_, err := c.LoadWorkbook([]byte("not a workbook"))
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestEntriesReturnsCopy(t *testing.T) {
	c := New(map[string]string{"ladies blouse": "6106.20.00"})

	entries := c.Entries()
	entries["ladies blouse"] = "tampered"

	assert.Equal(t, "6106.20.00", c.Lookup("ladies blouse"))
}
