package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrImportRejected      = errors.New("import rejected")
	ErrImportTooLarge      = errors.New("import file too large")
	ErrPaymentsUnavailable = errors.New("payments are not configured")
	ErrImagesUnavailable   = errors.New("image storage is not configured")
)

var inputValidator = validator.New()

// validateInput runs struct tag validation and reports every failing field
// as a single ErrInvalidInput.
func validateInput(input any) error {
	err := inputValidator.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s failed %s", fieldErr.Namespace(), fieldErr.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, "; "))
}
