package catalog

// Package catalog provides product import parsing, normalization and pricing.

import (
	"errors"
	"log/slog"
	"strings"
)

// ImportRow maps a header name to the raw cell value of one data line.
type ImportRow map[string]string

var ErrEmptyCSV = errors.New("csv has no header row")

// SplitCSVLine splits one line on commas that are not inside double quotes.
// Quotes toggle the quoted state and are dropped; escaped quotes are not
// supported. Every field is trimmed.
func SplitCSVLine(line string) []string {
	fields := make([]string, 0, strings.Count(line, ",")+1)

	var current strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}

// ParseCSV splits text into a header and data rows. Blank lines are ignored.
// A data line whose field count differs from the header is logged and
// skipped; it never fails the parse.
func ParseCSV(text string, logger *slog.Logger) ([]string, []ImportRow, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return nil, nil, ErrEmptyCSV
	}

	headers := SplitCSVLine(lines[0].text)
	rows := make([]ImportRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := SplitCSVLine(line.text)
		row, ok := buildRow(headers, values)
		if !ok {
			logger.Warn("skipping csv row with mismatched column count",
				"line", line.number,
				"expected", len(headers),
				"got", len(values),
			)
			continue
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

type numberedLine struct {
	number int
	text   string
}

func nonBlankLines(text string) []numberedLine {
	text = strings.TrimPrefix(text, "\ufeff")
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	lines := make([]numberedLine, 0, len(raw))
	for i, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, numberedLine{number: i + 1, text: line})
	}
	return lines
}

func buildRow(headers, values []string) (ImportRow, bool) {
	if len(values) != len(headers) {
		return nil, false
	}
	row := make(ImportRow, len(headers))
	for i, header := range headers {
		row[header] = values[i]
	}
	return row, true
}
