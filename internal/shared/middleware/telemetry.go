package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Telemetry wraps an http.RoundTripper with OpenTelemetry instrumentation.
// Starts a client span per request, injects W3C trace headers, and records
// the standard HTTP client metrics.
func Telemetry(next http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(next,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "monzo " + r.Method + " " + Route(r.URL.Path)
		}),
	)
}
