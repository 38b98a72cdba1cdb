// Package middleware decorates the http.RoundTripper used by the Monzo client.
//
// Telemetry (otelhttp) owns the client span and the standard http.client.*
// metrics. Tracing adds monzo.client.request.* metrics keyed by the
// collapsed Monzo route, which otelhttp does not record, plus the raw target
// and status on the span.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	clientMeter              = otel.Meter("monzo/http")
	clientRequestDuration, _ = clientMeter.Float64Histogram("monzo.client.request.duration",
		metric.WithDescription("Monzo API request duration in seconds"),
		metric.WithUnit("s"),
	)
	clientRequestTotal, _ = clientMeter.Int64Counter("monzo.client.request.total",
		metric.WithDescription("Total Monzo API requests"),
	)
)

// Tracing annotates the span already in the request context (started by
// Telemetry) with Monzo endpoint attributes and records request metrics.
// Transport failures and 5xx responses mark the span as errored.
func Tracing(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		ctx := r.Context()
		span := trace.SpanFromContext(ctx)
		span.SetAttributes(attribute.String("http.target", r.URL.Path))

		start := time.Now()
		resp, err := next.RoundTrip(r)

		status := 0
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "transport error")
		} else {
			status = resp.StatusCode
			span.SetAttributes(attribute.Int("http.status_code", status))
			if status >= 500 {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
		}

		attrs := metric.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", Route(r.URL.Path)),
			attribute.Int("http.status_code", status),
		)
		clientRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		clientRequestTotal.Add(ctx, 1, attrs)

		return resp, err
	})
}

// Route collapses resource ids out of a request path so span names and
// metric attributes stay low-cardinality: /transactions/tx_123 becomes
// /transactions/{id}.
func Route(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 2 && parts[0] == "transactions" {
		return "/transactions/{id}"
	}
	return path
}
