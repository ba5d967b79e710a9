package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/electrostore/electrostore/internal/auth"
	"github.com/electrostore/electrostore/internal/cache"
	"github.com/electrostore/electrostore/internal/config"
	"github.com/electrostore/electrostore/internal/db"
	"github.com/electrostore/electrostore/internal/images"
	"github.com/electrostore/electrostore/internal/logging"
	"github.com/electrostore/electrostore/internal/services"
)

const (
	maxWebhookBodyBytes = 1 << 20 // 1 MB
	maxJSONBodyBytes    = 1 << 20 // 1 MB
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Handlers serves the storefront API, the admin API and the Stripe webhook.
type Handlers struct {
	config        *config.Config
	db            pinger
	catalog       *services.CatalogService
	imports       *services.ImportService
	checkout      *services.CheckoutService
	stripeRouter  *StripeEventRouter
	cacheProvider cache.Provider
	verifier      *auth.Verifier
	logger        *slog.Logger
}

type Dependencies struct {
	Config        *config.Config
	DB            pinger
	Catalog       *services.CatalogService
	Imports       *services.ImportService
	Checkout      *services.CheckoutService
	StripeRouter  *StripeEventRouter
	CacheProvider cache.Provider
	Verifier      *auth.Verifier
	Logger        *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("handlers dependencies: db is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("handlers dependencies: catalog is required")
	}
	if deps.Imports == nil {
		return nil, fmt.Errorf("handlers dependencies: imports is required")
	}
	if deps.Checkout == nil {
		return nil, fmt.Errorf("handlers dependencies: checkout is required")
	}
	if deps.CacheProvider == nil {
		return nil, fmt.Errorf("handlers dependencies: cacheProvider is required")
	}
	if deps.Verifier == nil {
		return nil, fmt.Errorf("handlers dependencies: verifier is required")
	}

	return &Handlers{
		config:        deps.Config,
		db:            deps.DB,
		catalog:       deps.Catalog,
		imports:       deps.Imports,
		checkout:      deps.Checkout,
		stripeRouter:  deps.StripeRouter,
		cacheProvider: deps.CacheProvider,
		verifier:      deps.Verifier,
		logger:        logger.With("component", "handlers"),
	}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)

	if err := h.db.Ping(ctx); err != nil {
		logger.Error("database health check failed", "error", err)
		http.Error(w, "Database unhealthy", http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.loggerFromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors onto HTTP statuses. Unexpected errors are
// logged and reported without details.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.loggerFromContext(r.Context()).Error("request failed", "error", err)
		message = "internal server error"
	}
	h.writeJSON(w, r, status, errorResponse{Error: message})
}

func statusForError(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrDuplicate), errors.Is(err, db.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrImportRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrImportTooLarge), errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, images.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, services.ErrPaymentsUnavailable), errors.Is(err, services.ErrImagesUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a bounded JSON body into dst. Malformed bodies are
// reported as invalid input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return fmt.Errorf("%w: malformed JSON body: %w", services.ErrInvalidInput, err)
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s %q", services.ErrInvalidInput, name, raw)
	}
	return id, nil
}

type visibilityRequest struct {
	Active *bool `json:"is_active"`
}

func decodeVisibility(w http.ResponseWriter, r *http.Request) (bool, error) {
	var req visibilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return false, err
	}
	if req.Active == nil {
		return false, fmt.Errorf("%w: is_active is required", services.ErrInvalidInput)
	}
	return *req.Active, nil
}
