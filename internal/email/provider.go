// Package email sends transactional mail for orders.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type Provider interface {
	SendEmail(ctx context.Context, email *Email) error
}

type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Config struct {
	APIKey string
	From   string
}

// NewProvider returns a Resend provider when an API key is configured and a
// provider that only logs otherwise.
func NewProvider(config Config, logger *slog.Logger) (Provider, error) {
	apiKey := strings.TrimSpace(config.APIKey)
	if apiKey == "" {
		return NewNoopProvider(logger), nil
	}
	if strings.TrimSpace(config.From) == "" {
		return nil, fmt.Errorf("email sender address is required")
	}
	return NewResendProvider(apiKey, config.From), nil
}

// NoopProvider drops every message.
type NoopProvider struct {
	logger *slog.Logger
}

func NewNoopProvider(logger *slog.Logger) *NoopProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NoopProvider{logger: logger}
}

func (p *NoopProvider) SendEmail(_ context.Context, email *Email) error {
	if email == nil {
		return fmt.Errorf("email is required")
	}
	p.logger.Debug("email delivery disabled, dropping message", "to", email.To, "subject", email.Subject)
	return nil
}
