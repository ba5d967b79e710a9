package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryProvider_SetGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider, err := NewMemoryProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := provider.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := provider.Set(ctx, WebhookKey("stripe", "evt_1"), "processed", time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := provider.Get(ctx, "webhook:stripe:evt_1")
	if err != nil || got != "processed" {
		t.Fatalf("unexpected get result: %q, %v", got, err)
	}

	if err := provider.Delete(ctx, "webhook:stripe:evt_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := provider.Get(ctx, "webhook:stripe:evt_1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryProvider_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider, err := NewMemoryProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := provider.Set(ctx, "short", "v", -time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := provider.Get(ctx, "short"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired entry to be missing, got %v", err)
	}
}

func TestJSONHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider, err := NewMemoryProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	type entry struct {
		Name string `json:"name"`
	}
	if err := SetJSON(ctx, provider, CategoriesKey, []entry{{Name: "Audio"}}, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []entry
	if err := GetJSON(ctx, provider, CategoriesKey, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Audio" {
		t.Fatalf("unexpected decoded value: %v", got)
	}

	if err := provider.Set(ctx, "bad", "{", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := GetJSON(ctx, provider, "bad", &got); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider string
		wantErr  bool
	}{
		{name: "default provider", provider: "", wantErr: false},
		{name: "memory provider", provider: "memory", wantErr: false},
		{name: "unsupported provider", provider: "memcached", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider, err := NewProvider(Config{Provider: tt.provider})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if err := provider.Close(); err != nil {
				t.Fatalf("expected close without error, got %v", err)
			}
		})
	}
}
