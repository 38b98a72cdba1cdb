package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request id so log lines can be matched with
// upstream support requests.
const RequestIDHeader = "X-Request-Id"

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Logging logs one line per outgoing request: id, method, path, status and
// duration. Query strings and headers are never logged.
func Logging(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
			// RoundTrippers must not modify the caller's request.
			r = r.Clone(r.Context())
			r.Header.Set(RequestIDHeader, id)
		}

		resp, err := next.RoundTrip(r)
		if err != nil {
			log.Printf("%s %s %s failed after %s: %v", id, r.Method, r.URL.Path, time.Since(start), err)
			return nil, err
		}

		log.Printf(
			"%s %s %s %d %s",
			id,
			r.Method,
			r.URL.Path,
			resp.StatusCode,
			time.Since(start),
		)
		return resp, nil
	})
}
