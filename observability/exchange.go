package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/reqkit/errors"
)

// Exchange tracks the span and metrics of one HTTP exchange.
type Exchange struct {
	Transport string
	Method    string
	URL       string
	StartTime time.Time
	Metrics   *ClientMetrics

	span trace.Span
}

// StartExchange starts an http.request span. If metrics is nil, metric
// recording is skipped.
func StartExchange(ctx context.Context, metrics *ClientMetrics, transportName, method, url string) (context.Context, *Exchange) {
	ctx, span := StartSpan(ctx, SpanHTTPRequest,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrHTTPMethod, method),
			attribute.String(AttrURL, url),
			attribute.String(AttrTransport, transportName),
		),
	)
	return ctx, &Exchange{
		Transport: transportName,
		Method:    method,
		URL:       url,
		StartTime: time.Now(),
		Metrics:   metrics,
		span:      span,
	}
}

// Span returns the exchange span.
func (e *Exchange) Span() trace.Span { return e.span }

// Duration returns the elapsed time since the exchange started.
func (e *Exchange) Duration() time.Duration {
	return time.Since(e.StartTime)
}

// Succeed ends the exchange with a response.
func (e *Exchange) Succeed(ctx context.Context, status int, contentType string) {
	duration := e.Duration()
	e.span.SetAttributes(
		attribute.Int(AttrStatusCode, status),
		attribute.String(AttrContentType, contentType),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	e.span.End()

	if e.Metrics != nil {
		e.Metrics.RecordRequest(ctx, e.Transport, e.Method, status, duration)
	}
}

// Fail ends the exchange with err.
func (e *Exchange) Fail(ctx context.Context, err error) {
	code := string(apperrors.CodeOf(err))
	if code == "" {
		code = "UNKNOWN"
	}

	e.span.RecordError(err)
	e.span.SetStatus(codes.Error, err.Error())
	e.span.SetAttributes(
		attribute.String(AttrErrorCode, code),
		attribute.Int64(AttrDurationMs, e.Duration().Milliseconds()),
	)
	e.span.End()

	if e.Metrics != nil {
		e.Metrics.RecordError(ctx, e.Transport, e.Method, code)
	}
}
