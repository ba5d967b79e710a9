// Package importer drives bulk product imports: parse, normalize, then
// create each product one at a time.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/electrostore/electrostore/internal/catalog"
	"github.com/electrostore/electrostore/internal/models"
)

const unknownErrorMessage = "unknown error"

// ProductCreator persists a single product. Each call succeeds or fails on
// its own.
type ProductCreator interface {
	CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error)
}

// CategoryLister returns the categories that import rows may reference.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Orchestrator submits normalized payloads sequentially and aggregates the
// outcome.
type Orchestrator struct {
	creator ProductCreator
	logger  *slog.Logger
}

func NewOrchestrator(creator ProductCreator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{creator: creator, logger: logger}
}

// Run attempts every payload exactly once, in order, waiting for each
// create call before starting the next. A failed call is recorded as
// "<name>: <message>" and the loop moves on.
func (o *Orchestrator) Run(ctx context.Context, payloads []models.ProductInput) *models.ImportResult {
	result := &models.ImportResult{
		Errors: []string{},
		Total:  len(payloads),
	}

	for i, payload := range payloads {
		if _, err := o.creator.CreateProduct(ctx, payload); err != nil {
			message := errorMessage(err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", payload.Name, message))
			o.logger.Warn("failed to import product", "row", i+1, "product", payload.Name, "error", message)
			continue
		}
		result.Success++
	}

	return result
}

func errorMessage(err error) string {
	if err == nil {
		return unknownErrorMessage
	}
	if message := strings.TrimSpace(err.Error()); message != "" {
		return message
	}
	return unknownErrorMessage
}

// Importer wires parsing, normalization and orchestration together.
type Importer struct {
	categories   CategoryLister
	normalizer   *catalog.Normalizer
	orchestrator *Orchestrator
	logger       *slog.Logger
}

func New(categories CategoryLister, creator ProductCreator, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Importer{
		categories:   categories,
		normalizer:   catalog.NewNormalizer(),
		orchestrator: NewOrchestrator(creator, logger),
		logger:       logger,
	}
}

// ImportCSV runs a full import of CSV text. A fatal error (empty input,
// missing name or price, unknown category) is returned before any product
// is created, with a nil result.
func (im *Importer) ImportCSV(ctx context.Context, text string) (*models.ImportResult, error) {
	_, rows, err := catalog.ParseCSV(text, im.logger)
	if err != nil {
		return nil, err
	}
	return im.importRows(ctx, rows)
}

// ImportXLSX runs a full import of the first sheet of a workbook with the
// same rules as ImportCSV.
func (im *Importer) ImportXLSX(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	_, rows, err := catalog.ParseXLSX(r, im.logger)
	if err != nil {
		return nil, err
	}
	return im.importRows(ctx, rows)
}

func (im *Importer) importRows(ctx context.Context, rows []catalog.ImportRow) (*models.ImportResult, error) {
	categories, err := im.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	payloads, err := im.normalizer.NormalizeAll(rows, categories)
	if err != nil {
		return nil, err
	}

	return im.orchestrator.Run(ctx, payloads), nil
}
