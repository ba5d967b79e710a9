package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	BaseURL     string `env:"BASE_URL" validate:"omitempty,url"`

	AdminJWTSecret string `env:"ADMIN_JWT_SECRET,required" validate:"required,min=32"`

	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`

	StoreSettingsPath string `env:"STORE_SETTINGS_PATH"`
	ImportMaxBytes    int64  `env:"IMPORT_MAX_BYTES" envDefault:"5242880" validate:"gt=0"`

	CacheProvider         string `env:"CACHE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	RedisConnectionString string `env:"REDIS_CONNECTION_STRING" envDefault:"redis://localhost:6379/0" validate:"required_if=CacheProvider redis"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" validate:"required_with=ResendAPIKey"`

	ImagesEndpoint  string `env:"IMAGES_ENDPOINT"`
	ImagesAccessKey string `env:"IMAGES_ACCESS_KEY"`
	ImagesSecretKey string `env:"IMAGES_SECRET_KEY"`
	ImagesBucket    string `env:"IMAGES_BUCKET"`
	ImagesUseSSL    bool   `env:"IMAGES_USE_SSL" envDefault:"true"`
	ImagesPublicURL string `env:"IMAGES_PUBLIC_URL" validate:"omitempty,url"`

	SentryDSN string `env:"SENTRY_DSN"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	Port      string     `env:"PORT" envDefault:"8080"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// StripeEnabled reports whether checkout through Stripe is configured.
func (c *Config) StripeEnabled() bool {
	return strings.TrimSpace(c.StripeSecretKey) != ""
}

// ImagesEnabled reports whether product image uploads are configured.
func (c *Config) ImagesEnabled() bool {
	return strings.TrimSpace(c.ImagesEndpoint) != ""
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	hasStripeKey := strings.TrimSpace(c.StripeSecretKey) != ""
	hasWebhookSecret := strings.TrimSpace(c.StripeWebhookSecret) != ""
	if hasStripeKey != hasWebhookSecret {
		return fmt.Errorf("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET must be set together")
	}

	imageSettings := []string{c.ImagesEndpoint, c.ImagesAccessKey, c.ImagesSecretKey, c.ImagesBucket, c.ImagesPublicURL}
	set := 0
	for _, value := range imageSettings {
		if strings.TrimSpace(value) != "" {
			set++
		}
	}
	if set != 0 && set != len(imageSettings) {
		return fmt.Errorf("IMAGES_ENDPOINT, IMAGES_ACCESS_KEY, IMAGES_SECRET_KEY, IMAGES_BUCKET and IMAGES_PUBLIC_URL must be set together")
	}

	baseURL := strings.TrimSpace(c.BaseURL)
	if hasStripeKey && baseURL == "" {
		return fmt.Errorf("BASE_URL is required when Stripe checkout is enabled")
	}

	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Hostname() == "" {
			return fmt.Errorf("BASE_URL must be a valid absolute URL")
		}
		if !isLocalHost(parsed.Hostname()) && !strings.EqualFold(parsed.Scheme, "https") {
			return fmt.Errorf("BASE_URL must use https outside local development")
		}
	}

	return nil
}

func isLocalHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
