package db

import (
	"context"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5"
)

const maxSpanQueryLength = 512

type querySpanKey struct{}

// queryTracer opens a Sentry span per query when the caller is already
// inside a traced transaction.
type queryTracer struct{}

func newQueryTracer() *queryTracer {
	return &queryTracer{}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	if sentry.SpanFromContext(ctx) == nil {
		return ctx
	}

	statement := compactSQL(data.SQL)
	span := sentry.StartSpan(ctx, "db.query",
		sentry.WithDescription(statement),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	span.SetData("db.system", "postgresql")
	if verb, table := statementTarget(statement); verb != "" {
		span.SetData("db.operation", verb)
		if table != "" {
			span.SetData("db.sql.table", table)
		}
	}

	return context.WithValue(span.Context(), querySpanKey{}, span)
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span, ok := ctx.Value(querySpanKey{}).(*sentry.Span)
	if !ok || span == nil {
		return
	}
	defer span.Finish()

	if data.Err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("db.error", data.Err.Error())
		return
	}
	span.Status = sentry.SpanStatusOK
	if n := data.CommandTag.RowsAffected(); n >= 0 {
		span.SetData("db.rows_affected", n)
	}
}

func compactSQL(query string) string {
	compact := strings.Join(strings.Fields(query), " ")
	if compact == "" {
		return "sql.query"
	}
	if len(compact) > maxSpanQueryLength {
		return compact[:maxSpanQueryLength]
	}
	return compact
}

// statementTarget returns the SQL verb and, when it can be found, the table
// the statement operates on.
func statementTarget(statement string) (string, string) {
	words := strings.Fields(statement)
	if len(words) == 0 {
		return "", ""
	}
	verb := strings.ToUpper(words[0])

	marker := ""
	switch verb {
	case "SELECT", "DELETE":
		marker = "FROM"
	case "INSERT":
		marker = "INTO"
	case "UPDATE":
		if len(words) > 1 {
			return verb, strings.Trim(words[1], `"`)
		}
		return verb, ""
	}
	for i := 1; i < len(words)-1; i++ {
		if strings.EqualFold(words[i], marker) {
			return verb, strings.Trim(strings.TrimSuffix(words[i+1], ","), `"`)
		}
	}
	return verb, ""
}
