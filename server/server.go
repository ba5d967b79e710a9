package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/electrostore/electrostore/internal/config"
	"github.com/electrostore/electrostore/internal/handlers"
)

type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if h == nil {
		return nil, fmt.Errorf("handlers are required")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		handlers: h,
	}

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Router(),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Server) Run() error {
	s.logger.Info("server starting", "port", s.cfg.Port)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Router builds the full route table.
func (s *Server) Router() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.Use(h.MetricsContext)
	r.Use(h.SecurityHeaders)
	r.HandleFunc("/health", h.Health).Methods("GET").Name("health")
	r.HandleFunc("/webhooks/stripe", h.StripeWebhook).Methods("POST").Name("webhooks.stripe")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}` + "\n"))
	})

	// Storefront API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", h.ListProducts).Methods("GET").Name("api.products")
	api.HandleFunc("/products/{id}", h.GetProduct).Methods("GET").Name("api.products.get")
	api.HandleFunc("/categories", h.ListCategories).Methods("GET").Name("api.categories")
	api.HandleFunc("/banners", h.ListBanners).Methods("GET").Name("api.banners")
	api.HandleFunc("/cart/quote", h.QuoteCart).Methods("POST").Name("api.cart.quote")
	api.HandleFunc("/checkout", h.Checkout).Methods("POST").Name("api.checkout")

	// Admin API - bearer token required
	admin := r.PathPrefix("/admin/api").Subrouter()
	admin.Use(h.RequireAdmin)
	admin.Use(h.RequireSameOrigin)
	admin.HandleFunc("/products", h.AdminListProducts).Methods("GET").Name("admin.products")
	admin.HandleFunc("/products", h.AdminCreateProduct).Methods("POST").Name("admin.products.create")
	admin.HandleFunc("/products/import", h.AdminImportProducts).Methods("POST").Name("admin.products.import")
	admin.HandleFunc("/products/import/template", h.AdminImportTemplate).Methods("GET").Name("admin.products.import.template")
	admin.HandleFunc("/products/{id}", h.AdminUpdateProduct).Methods("PUT").Name("admin.products.update")
	admin.HandleFunc("/products/{id}", h.AdminDeleteProduct).Methods("DELETE").Name("admin.products.delete")
	admin.HandleFunc("/products/{id}/visibility", h.AdminSetProductVisibility).Methods("POST").Name("admin.products.visibility")
	admin.HandleFunc("/products/{id}/images", h.AdminUploadProductImage).Methods("POST").Name("admin.products.images")
	admin.HandleFunc("/categories", h.AdminCreateCategory).Methods("POST").Name("admin.categories.create")
	admin.HandleFunc("/banners", h.AdminListBanners).Methods("GET").Name("admin.banners")
	admin.HandleFunc("/banners", h.AdminCreateBanner).Methods("POST").Name("admin.banners.create")
	admin.HandleFunc("/banners/{id}/visibility", h.AdminSetBannerVisibility).Methods("POST").Name("admin.banners.visibility")
	admin.HandleFunc("/banners/{id}", h.AdminDeleteBanner).Methods("DELETE").Name("admin.banners.delete")

	return r
}
