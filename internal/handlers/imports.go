package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/electrostore/electrostore/internal/models"
	"github.com/electrostore/electrostore/internal/services"
)

const (
	importFormFieldName   = "file"
	importDisplayedErrors = 5
	// Room for multipart boundaries and part headers on top of the file.
	multipartOverheadBytes = 64 << 10
)

type importResponse struct {
	Success    int      `json:"success"`
	Errors     []string `json:"errors"`
	Total      int      `json:"total"`
	ErrorCount int      `json:"error_count"`
}

func newImportResponse(result *models.ImportResult) importResponse {
	return importResponse{
		Success:    result.Success,
		Errors:     result.DisplayErrors(importDisplayedErrors),
		Total:      result.Total,
		ErrorCount: len(result.Errors),
	}
}

// AdminImportProducts accepts either a multipart upload in the "file" field
// or the raw file as the request body.
func (h *Handlers) AdminImportProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	maxBytes := h.config.ImportMaxBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverheadBytes)

	upload := services.ImportUpload{
		Filename:    strings.TrimSpace(r.URL.Query().Get("filename")),
		ContentType: r.Header.Get("Content-Type"),
		Body:        r.Body,
	}

	if mediaType, _, _ := mime.ParseMediaType(upload.ContentType); mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if statusForError(err) != http.StatusRequestEntityTooLarge {
				err = fmt.Errorf("%w: invalid multipart form: %w", services.ErrInvalidInput, err)
			}
			h.writeError(w, r, err)
			return
		}
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				h.loggerFromContext(ctx).Warn("failed to remove multipart temp files", "error", err)
			}
		}()

		file, header, err := r.FormFile(importFormFieldName)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: missing %q file", services.ErrInvalidInput, importFormFieldName))
			return
		}
		defer file.Close()

		upload = services.ImportUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}
	}

	result, err := h.imports.Import(ctx, upload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, newImportResponse(result))
}

func (h *Handlers) AdminImportTemplate(w http.ResponseWriter, r *http.Request) {
	format := services.ImportFormat(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))))
	file, err := h.imports.Template(format)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	headers := w.Header()
	headers.Set("Content-Type", file.ContentType)
	headers.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	headers.Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		h.loggerFromContext(r.Context()).Error("failed to write import template", "error", err)
	}
}
