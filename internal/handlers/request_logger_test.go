package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestLogger_TagsSurfaceAndRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		surface string
	}{
		{name: "storefront", path: "/api/products", surface: "storefront"},
		{name: "admin", path: "/admin/api/products/import", surface: "admin"},
		{name: "webhook", path: "/webhooks/stripe", surface: "webhook"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			h := newTestEnv(t).handlers
			h.logger = slog.New(slog.NewJSONHandler(&buf, nil))

			handler := h.RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
			}))

			req := httptest.NewRequest(http.MethodPost, tc.path, nil)
			req.Header.Set("X-Request-ID", "req-42")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
				t.Fatalf("X-Request-ID = %q, want req-42", got)
			}

			var entry struct {
				Msg       string `json:"msg"`
				RequestID string `json:"request_id"`
				Surface   string `json:"surface"`
				Status    int    `json:"status"`
			}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
			}
			if entry.Msg != "request completed" || entry.RequestID != "req-42" || entry.Surface != tc.surface || entry.Status != http.StatusCreated {
				t.Fatalf("unexpected log entry: %+v", entry)
			}
		})
	}
}
