package handlers

import (
	"errors"
	"net/http"

	"github.com/electrostore/electrostore/internal/auth"
	"github.com/electrostore/electrostore/internal/logging"
	"github.com/electrostore/electrostore/internal/observability"
)

// RequireAdmin rejects requests without a valid admin bearer token and tags
// the request logger with the token subject.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		recordRejected := observability.FailureCounter(observability.MeterFromContext(ctx), "admin.auth.rejected")

		claims, err := h.verifier.VerifyHeader(r.Header.Get("Authorization"))
		if err != nil {
			status := http.StatusUnauthorized
			reason := "invalid_token"
			switch {
			case errors.Is(err, auth.ErrForbidden):
				status = http.StatusForbidden
				reason = "forbidden"
			case errors.Is(err, auth.ErrMissingToken):
				reason = "missing_token"
			}
			recordRejected(reason)
			h.loggerFromContext(ctx).Warn("admin request rejected", "reason", reason, "error", err)
			if status == http.StatusUnauthorized {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
			}
			h.writeJSON(w, r, status, errorResponse{Error: http.StatusText(status)})
			return
		}

		ctx = logging.With(ctx, h.logger, "admin_subject", claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
