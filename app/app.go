package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lmittmann/tint"

	"github.com/electrostore/electrostore/internal/auth"
	"github.com/electrostore/electrostore/internal/cache"
	"github.com/electrostore/electrostore/internal/catalog"
	"github.com/electrostore/electrostore/internal/config"
	"github.com/electrostore/electrostore/internal/db"
	"github.com/electrostore/electrostore/internal/email"
	"github.com/electrostore/electrostore/internal/handlers"
	"github.com/electrostore/electrostore/internal/images"
	"github.com/electrostore/electrostore/internal/logging"
	"github.com/electrostore/electrostore/internal/services"
	"github.com/electrostore/electrostore/internal/stripe"
)

const sentryFlushTimeout = 2 * time.Second

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	DB            *pgxpool.Pool
	CacheProvider cache.Provider
	Handlers      *handlers.Handlers
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	settings, err := loadStoreSettings(cfg.StoreSettingsPath)
	if err != nil {
		return nil, err
	}

	verifier, err := auth.NewVerifier(cfg.AdminJWTSecret)
	if err != nil {
		return nil, err
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	database, err := db.Connect(startupCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	cacheProvider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	a := &App{
		Config:        cfg,
		Logger:        logger,
		DB:            database,
		CacheProvider: cacheProvider,
	}
	if err := a.wire(startupCtx, settings, verifier); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context, settings *catalog.StoreSettings, verifier *auth.Verifier) error {
	cfg := a.Config
	logger := a.Logger

	productStore := db.NewProductStore(a.DB)
	categoryStore := db.NewCategoryStore(a.DB)
	bannerStore := db.NewBannerStore(a.DB)
	orderStore := db.NewOrderStore(a.DB)

	var imageStore *images.Store
	if cfg.ImagesEnabled() {
		store, err := images.NewStore(images.Config{
			Endpoint:  cfg.ImagesEndpoint,
			AccessKey: cfg.ImagesAccessKey,
			SecretKey: cfg.ImagesSecretKey,
			Bucket:    cfg.ImagesBucket,
			UseSSL:    cfg.ImagesUseSSL,
			PublicURL: cfg.ImagesPublicURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize image storage: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to prepare image bucket: %w", err)
		}
		imageStore = store
	} else {
		logger.Info("image storage not configured, product image uploads are disabled")
	}

	mailer, err := email.NewProvider(email.Config{
		APIKey: cfg.ResendAPIKey,
		From:   cfg.EmailFrom,
	}, logger.With("component", "email"))
	if err != nil {
		return fmt.Errorf("failed to initialize email provider: %w", err)
	}

	catalogDeps := services.CatalogDependencies{
		Products:   productStore,
		Categories: categoryStore,
		Banners:    bannerStore,
		Cache:      a.CacheProvider,
		Logger:     logger.With("component", "catalog_service"),
	}
	if imageStore != nil {
		catalogDeps.Images = imageStore
	}
	catalogService, err := services.NewCatalogService(catalogDeps)
	if err != nil {
		return err
	}

	importService, err := services.NewImportService(catalogService, productStore, cfg.ImportMaxBytes, logger.With("component", "import_service"))
	if err != nil {
		return err
	}

	pricer := catalog.NewPricer(settings)
	var stripeRouter *handlers.StripeEventRouter
	var checkoutService *services.CheckoutService
	if cfg.StripeEnabled() {
		checkoutService, err = services.NewCheckoutService(productStore, orderStore, stripe.NewClient(cfg.StripeSecretKey), pricer, cfg.BaseURL, logger.With("component", "checkout_service"))
		if err != nil {
			return err
		}
		paymentService, err := services.NewPaymentService(orderStore, mailer, settings.Store.Name, cfg.BaseURL, logger.With("component", "payment_service"))
		if err != nil {
			return err
		}
		stripeRouter = handlers.NewStripeEventRouter(paymentService, logger.With("component", "stripe_router"))
	} else {
		logger.Info("stripe not configured, checkout is disabled")
		checkoutService, err = services.NewCheckoutService(productStore, orderStore, nil, pricer, cfg.BaseURL, logger.With("component", "checkout_service"))
		if err != nil {
			return err
		}
	}

	h, err := handlers.New(handlers.Dependencies{
		Config:        cfg,
		DB:            a.DB,
		Catalog:       catalogService,
		Imports:       importService,
		Checkout:      checkoutService,
		StripeRouter:  stripeRouter,
		CacheProvider: a.CacheProvider,
		Verifier:      verifier,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize handlers: %w", err)
	}
	a.Handlers = h
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
	if a.DB != nil {
		a.DB.Close()
	}
	if a.Config != nil && a.Config.SentryDSN != "" {
		sentry.Flush(sentryFlushTimeout)
	}
}

func loadStoreSettings(path string) (*catalog.StoreSettings, error) {
	settings, err := catalog.NewSettingsParser().Load(path)
	if err != nil {
		return nil, err
	}
	if err := catalog.NewSettingsValidator().Validate(settings); err != nil {
		return nil, fmt.Errorf("invalid store settings: %w", err)
	}
	return settings, nil
}

// newLogger writes to stdout and, when a Sentry DSN is configured, also
// reports error records to Sentry.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	var base slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "json":
		base = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	default:
		base = tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.LogLevel})
	}

	if strings.TrimSpace(cfg.SentryDSN) == "" {
		return slog.New(base), nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
		AttachStacktrace: true,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}
	return slog.New(logging.MultiHandler(base, logging.NewSentryHandler(slog.LevelError))), nil
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}
