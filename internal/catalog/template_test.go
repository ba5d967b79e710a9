package catalog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestTemplateCSV_RoundTripsThroughImport(t *testing.T) {
	t.Parallel()

	headers, rows, err := ParseCSV(TemplateCSV(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headers) != len(ImportTemplateHeaders) {
		t.Fatalf("expected %d headers, got %d", len(ImportTemplateHeaders), len(headers))
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 example rows, got %d", len(rows))
	}
	if rows[0]["name"] != "Smart TV 55 4K" {
		t.Fatalf("unexpected first row name %q", rows[0]["name"])
	}
	if rows[2]["description"] != "Auriculares inalambricos, cancelacion de ruido" {
		t.Fatalf("quoted comma lost: %q", rows[2]["description"])
	}
}

func TestTemplateXLSX_ParsesBack(t *testing.T) {
	t.Parallel()

	data, err := TemplateXLSX()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	headers, rows, err := ParseXLSX(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headers) != len(ImportTemplateHeaders) {
		t.Fatalf("expected %d headers, got %d", len(ImportTemplateHeaders), len(headers))
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	// Last example row has an empty trailing spec column.
	if rows[2]["specs_garantia"] != "" || rows[2]["specs_marca"] != "Sony" {
		t.Fatalf("unexpected padded row: %v", rows[2])
	}
}

func TestParseXLSX_SkipsRowsWiderThanHeader(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	defer f.Close()
	mustSetRow(t, f, "A1", []any{"name", "price"})
	mustSetRow(t, f, "A2", []any{"TV", "1000"})
	mustSetRow(t, f, "A4", []any{"Radio", "500", "extra"})
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}

	_, rows, err := ParseXLSX(buf, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "TV" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestParseXLSX_InvalidWorkbook(t *testing.T) {
	t.Parallel()

	_, _, err := ParseXLSX(strings.NewReader("name,price\nTV,1000"), nil)
	if !errors.Is(err, ErrInvalidWorkbook) {
		t.Fatalf("expected ErrInvalidWorkbook, got %v", err)
	}
}

func mustSetRow(t *testing.T, f *excelize.File, cell string, values []any) {
	t.Helper()
	if err := f.SetSheetRow("Sheet1", cell, &values); err != nil {
		t.Fatalf("failed to set row: %v", err)
	}
}
