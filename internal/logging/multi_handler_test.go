package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	t.Parallel()

	var debugBuf, errorBuf bytes.Buffer
	logger := slog.New(MultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
		nil,
	)).With("component", "importer")

	logger.Info("import started")
	logger.Error("import aborted")

	if !strings.Contains(debugBuf.String(), "import started") || !strings.Contains(debugBuf.String(), "import aborted") {
		t.Fatalf("debug handler missed records: %q", debugBuf.String())
	}
	if strings.Contains(errorBuf.String(), "import started") {
		t.Fatalf("error handler received info record: %q", errorBuf.String())
	}
	if !strings.Contains(errorBuf.String(), "component=importer") {
		t.Fatalf("attrs not propagated: %q", errorBuf.String())
	}
}

func TestMultiHandler_EmptyDiscards(t *testing.T) {
	t.Parallel()

	handler := MultiHandler()
	if handler.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("expected empty multi handler to discard records")
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	fallback := slog.New(slog.NewTextHandler(&buf, nil))

	if FromContext(context.Background(), fallback) != fallback {
		t.Fatalf("expected fallback logger")
	}

	ctx := With(context.Background(), fallback, "request_id", "abc")
	FromContext(ctx, nil).Info("hello")
	if !strings.Contains(buf.String(), "request_id=abc") {
		t.Fatalf("expected request id attr, got %q", buf.String())
	}

	if FromContext(nil, nil) == nil { //nolint:staticcheck
		t.Fatalf("expected no-op logger")
	}
}

func TestSentryHandler_Enabled(t *testing.T) {
	t.Parallel()

	handler := NewSentryHandler(slog.LevelError)
	if handler.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatalf("warn should not be reported")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should be reported")
	}
	if sentryLevel(slog.LevelWarn) != "warning" {
		t.Fatalf("unexpected level mapping")
	}
}
