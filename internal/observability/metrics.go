// Package observability holds the Sentry tracing and metrics helpers shared
// by handlers and services.
package observability

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
)

type meterContextKey struct{}

// WithMeter returns a context carrying the provided meter.
func WithMeter(ctx context.Context, meter sentry.Meter) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if meter == nil {
		meter = sentry.NewMeter(ctx)
	}
	return context.WithValue(ctx, meterContextKey{}, meter.WithCtx(ctx))
}

// MeterFromContext returns the request-scoped meter from context or a new one.
func MeterFromContext(ctx context.Context) sentry.Meter {
	if ctx == nil {
		ctx = context.Background()
	}
	if meter, ok := ctx.Value(meterContextKey{}).(sentry.Meter); ok && meter != nil {
		return meter.WithCtx(ctx)
	}
	return sentry.NewMeter(ctx).WithCtx(ctx)
}

// FailureCounter returns a func that counts metric once per call, tagged
// with the given reason.
func FailureCounter(meter sentry.Meter, metric string) func(reason string) {
	return func(reason string) {
		meter.Count(metric, 1, sentry.WithAttributes(attribute.String("reason", reason)))
	}
}

// StartSpan opens a manual span named "<op>.<name>" and returns the derived
// context. Callers must Finish the span.
func StartSpan(ctx context.Context, op, name string) (*sentry.Span, context.Context) {
	span := sentry.StartSpan(ctx, op+"."+name,
		sentry.WithOpName(op),
		sentry.WithDescription(name),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	return span, span.Context()
}
