package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var (
	apiTracer = otel.Tracer("golf-handicap/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// startSpan opens a child span for handler methods only. Requests that were
// not traced, such as health checks, get a no-op span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}

// recordSpanError attaches err to the current span. Only server side
// failures mark the span as errored.
func recordSpanError(ctx context.Context, httpStatus int, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() || err == nil {
		return
	}
	span.RecordError(err)
	if code, ok := spanStatusFor(httpStatus); ok {
		span.SetStatus(code, err.Error())
	}
}

func spanStatusFor(httpStatus int) (codes.Code, bool) {
	if httpStatus >= 500 {
		return codes.Error, true
	}
	return codes.Unset, false
}
