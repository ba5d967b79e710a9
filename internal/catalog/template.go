package catalog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "Products"

var ErrInvalidWorkbook = errors.New("invalid workbook")

// ImportTemplateHeaders are the columns of the downloadable import template.
var ImportTemplateHeaders = []string{
	ColumnName,
	ColumnDescription,
	ColumnPrice,
	ColumnCompareAtPrice,
	ColumnStock,
	ColumnCategoryName,
	SpecColumnPrefix + "marca",
	SpecColumnPrefix + "modelo",
	SpecColumnPrefix + "garantia",
}

var importTemplateRows = [][]string{
	{"Smart TV 55\" 4K", "Televisor LED 4K con HDR", "899999", "1099999", "12", "Audio y Video", "Samsung", "UN55AU7000", "12 meses"},
	{"Heladera No Frost 400L", "Heladera con freezer superior", "1249999", "", "5", "Heladeras", "Whirlpool", "WRM45AB", "24 meses"},
	{"Auriculares Bluetooth", "Auriculares inalambricos, cancelacion de ruido", "89999", "119999", "40", "Audio y Video", "Sony", "WH-CH720N", ""},
}

// TemplateCSV renders the import template as CSV text. Fields containing a
// comma or a double quote are wrapped in quotes; quotes inside them are
// dropped because the importer does not support escaped quotes.
func TemplateCSV() string {
	var b strings.Builder
	writeCSVLine(&b, ImportTemplateHeaders)
	for _, row := range importTemplateRows {
		writeCSVLine(&b, row)
	}
	return b.String()
}

func writeCSVLine(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if strings.ContainsAny(field, ",\"") {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, ""))
			b.WriteByte('"')
			continue
		}
		b.WriteString(field)
	}
	b.WriteByte('\n')
}

// TemplateXLSX renders the import template as an XLSX workbook.
func TemplateXLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return nil, fmt.Errorf("failed to name template sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	rows := append([][]string{ImportTemplateHeaders}, importTemplateRows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		values := make([]any, len(row))
		for j, value := range row {
			values[j] = value
		}
		if err := f.SetSheetRow(templateSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write template row %d: %w", i+1, err)
		}
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(ImportTemplateHeaders), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(templateSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style template header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode template workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseXLSX reads the first sheet of a workbook into import rows using the
// same rules as ParseCSV. Spreadsheets drop trailing empty cells, so short
// rows are padded; rows with cells beyond the header are skipped.
func ParseXLSX(r io.Reader, logger *slog.Logger) ([]string, []ImportRow, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptyCSV
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var headers []string
	rows := make([]ImportRow, 0, len(cells))
	for i, raw := range cells {
		values := trimCells(raw)
		if isBlankRow(values) {
			continue
		}
		if headers == nil {
			headers = values
			continue
		}
		if len(values) < len(headers) {
			values = append(values, make([]string, len(headers)-len(values))...)
		}
		row, ok := buildRow(headers, values)
		if !ok {
			logger.Warn("skipping spreadsheet row with mismatched column count",
				"line", i+1,
				"expected", len(headers),
				"got", len(values),
			)
			continue
		}
		rows = append(rows, row)
	}
	if headers == nil {
		return nil, nil, ErrEmptyCSV
	}

	return headers, rows, nil
}

func trimCells(raw []string) []string {
	values := make([]string, len(raw))
	for i, value := range raw {
		values[i] = strings.TrimSpace(value)
	}
	return values
}

func isBlankRow(values []string) bool {
	for _, value := range values {
		if value != "" {
			return false
		}
	}
	return true
}
