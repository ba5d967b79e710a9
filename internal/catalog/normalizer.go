package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/electrostore/electrostore/internal/models"
)

// Reserved import headers.
const (
	ColumnName           = "name"
	ColumnDescription    = "description"
	ColumnPrice          = "price"
	ColumnCompareAtPrice = "compare_at_price"
	ColumnStock          = "stock"
	ColumnCategoryName   = "category_name"

	SpecColumnPrefix = "specs_"
)

var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrUnknownCategory      = errors.New("category not found")
	ErrInvalidPrice         = errors.New("invalid price")
)

// Normalizer turns parsed import rows into product creation payloads.
type Normalizer struct {
	specPrefix string
}

func NewNormalizer() *Normalizer {
	return &Normalizer{specPrefix: SpecColumnPrefix}
}

// Normalize validates one row and resolves its category. Any error it
// returns is fatal for the whole import.
func (n *Normalizer) Normalize(row ImportRow, categories []models.Category) (models.ProductInput, error) {
	name := strings.TrimSpace(row[ColumnName])
	rawPrice := strings.TrimSpace(row[ColumnPrice])
	if name == "" || rawPrice == "" {
		return models.ProductInput{}, fmt.Errorf("%w: name and price are required (product %q)", ErrMissingRequiredField, name)
	}

	price, ok := parseFloat(rawPrice)
	if !ok {
		return models.ProductInput{}, fmt.Errorf("product %q: %w %q", name, ErrInvalidPrice, rawPrice)
	}

	categoryName := strings.TrimSpace(row[ColumnCategoryName])
	category, found := FindCategory(categories, categoryName)
	if !found {
		return models.ProductInput{}, fmt.Errorf("product %q: %w: %q", name, ErrUnknownCategory, categoryName)
	}
	categoryID := category.ID

	var compareAt *float64
	if value, ok := parseFloat(row[ColumnCompareAtPrice]); ok {
		compareAt = &value
	}

	return models.ProductInput{
		Name:           name,
		Description:    strings.TrimSpace(row[ColumnDescription]),
		Price:          price,
		CompareAtPrice: compareAt,
		Stock:          parseStock(row[ColumnStock]),
		CategoryID:     &categoryID,
		Images:         []string{},
		MainImage:      nil,
		Specs:          SpecFields(row, n.specPrefix),
		Active:         true,
	}, nil
}

// NormalizeAll normalizes every row in order and stops at the first error,
// returning no payloads in that case.
func (n *Normalizer) NormalizeAll(rows []ImportRow, categories []models.Category) ([]models.ProductInput, error) {
	payloads := make([]models.ProductInput, 0, len(rows))
	for i, row := range rows {
		payload, err := n.Normalize(row, categories)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}

// SpecFields collects the non-empty values of every header that starts with
// prefix, keyed by the header with the prefix removed.
func SpecFields(row ImportRow, prefix string) map[string]string {
	specs := map[string]string{}
	for header, value := range row {
		if !strings.HasPrefix(header, prefix) {
			continue
		}
		key := strings.TrimPrefix(header, prefix)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		specs[key] = value
	}
	return specs
}

// FindCategory matches name case-insensitively against the known categories.
func FindCategory(categories []models.Category, name string) (models.Category, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, false
	}
	for _, category := range categories {
		if strings.EqualFold(strings.TrimSpace(category.Name), name) {
			return category, true
		}
	}
	return models.Category{}, false
}

func parseFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// parseStock reads the leading integer of raw, so "12 unidades" is 12 and
// "1e3" is 1. No leading digits, or a value that overflows int, gives 0.
func parseStock(raw string) int {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '+' || raw[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	stock, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0
	}
	return stock
}
