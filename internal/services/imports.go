package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/electrostore/electrostore/internal/catalog"
	"github.com/electrostore/electrostore/internal/importer"
	"github.com/electrostore/electrostore/internal/logging"
	"github.com/electrostore/electrostore/internal/models"
	"github.com/electrostore/electrostore/internal/observability"
)

type ImportFormat string

const (
	FormatCSV  ImportFormat = "csv"
	FormatXLSX ImportFormat = "xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"
)

type ImportUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// TemplateFile is a downloadable import template.
type TemplateFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

type ImportService struct {
	importer *importer.Importer
	maxBytes int64
	logger   *slog.Logger
}

func NewImportService(categories importer.CategoryLister, creator importer.ProductCreator, maxBytes int64, logger *slog.Logger) (*ImportService, error) {
	if categories == nil {
		return nil, fmt.Errorf("import service: category lister is required")
	}
	if creator == nil {
		return nil, fmt.Errorf("import service: product creator is required")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("import service: max bytes must be positive")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ImportService{
		importer: importer.New(categories, creator, logger),
		maxBytes: maxBytes,
		logger:   logger,
	}, nil
}

// Import reads an uploaded CSV or XLSX file and creates its products one by
// one. Rejections that stop the whole import wrap ErrImportRejected.
func (s *ImportService) Import(ctx context.Context, upload ImportUpload) (*models.ImportResult, error) {
	span, ctx := observability.StartSpan(ctx, "service.import", "Import")
	defer span.Finish()

	logger := logging.FromContext(ctx, s.logger)
	meter := observability.MeterFromContext(ctx)
	recordRejected := observability.FailureCounter(meter, "import.rejected")

	if upload.Body == nil {
		recordRejected("empty_body")
		return nil, fmt.Errorf("%w: %w", ErrImportRejected, catalog.ErrEmptyCSV)
	}
	data, err := io.ReadAll(io.LimitReader(upload.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		recordRejected("too_large")
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrImportTooLarge, s.maxBytes)
	}

	format := DetectFormat(upload.Filename, upload.ContentType)
	logger = logger.With("import_format", string(format), "import_bytes", len(data))
	logger.Info("product import started", "filename", upload.Filename)

	var result *models.ImportResult
	switch format {
	case FormatXLSX:
		result, err = s.importer.ImportXLSX(ctx, bytes.NewReader(data))
	default:
		if !utf8.Valid(data) {
			recordRejected("invalid_encoding")
			return nil, fmt.Errorf("%w: file is not valid UTF-8 text", ErrImportRejected)
		}
		result, err = s.importer.ImportCSV(ctx, string(data))
	}
	if err != nil {
		if isImportRejection(err) {
			recordRejected("invalid_rows")
			logger.Warn("product import aborted", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrImportRejected, err)
		}
		logger.Error("product import failed", "error", err)
		return nil, err
	}

	meter.Count("import.products.created", int64(result.Success))
	meter.Count("import.products.failed", int64(len(result.Errors)))
	logger.Info("product import finished",
		"total", result.Total,
		"success", result.Success,
		"failed", len(result.Errors),
	)
	return result, nil
}

func isImportRejection(err error) bool {
	return errors.Is(err, catalog.ErrEmptyCSV) ||
		errors.Is(err, catalog.ErrMissingRequiredField) ||
		errors.Is(err, catalog.ErrUnknownCategory) ||
		errors.Is(err, catalog.ErrInvalidPrice) ||
		errors.Is(err, catalog.ErrInvalidWorkbook)
}

// DetectFormat picks XLSX by extension or content type and CSV otherwise.
func DetectFormat(filename, contentType string) ImportFormat {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return FormatXLSX
	}
	mediaType, _, _ := strings.Cut(contentType, ";")
	if strings.EqualFold(strings.TrimSpace(mediaType), xlsxContentType) {
		return FormatXLSX
	}
	return FormatCSV
}

// Template renders the import template in the requested format.
func (s *ImportService) Template(format ImportFormat) (*TemplateFile, error) {
	switch format {
	case FormatCSV, "":
		return &TemplateFile{
			Filename:    "plantilla_productos.csv",
			ContentType: csvContentType,
			Content:     []byte(catalog.TemplateCSV()),
		}, nil
	case FormatXLSX:
		content, err := catalog.TemplateXLSX()
		if err != nil {
			return nil, err
		}
		return &TemplateFile{
			Filename:    "plantilla_productos.xlsx",
			ContentType: xlsxContentType,
			Content:     content,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown template format %q", ErrInvalidInput, format)
	}
}
