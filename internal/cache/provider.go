package cache

// Package cache provides caching for category lookups and webhook idempotency.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Provider is a string key/value store with per-entry expiry.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Provider              string
	RedisConnectionString string
}

func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryProvider()
	case "redis":
		return NewRedisProvider(cfg.RedisConnectionString)
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Provider)
	}
}

const CategoriesKey = "catalog:categories"

func WebhookKey(source, eventID string) string {
	return fmt.Sprintf("webhook:%s:%s", source, eventID)
}

// GetJSON decodes a cached JSON value into dst. A missing key returns
// ErrNotFound.
func GetJSON(ctx context.Context, p Provider, key string, dst any) error {
	raw, err := p.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return nil
}

func SetJSON(ctx context.Context, p Provider, key string, value any, ttl time.Duration) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}
	return p.Set(ctx, key, string(encoded), ttl)
}

var ErrNotFound = errors.New("key not found")
