// Package monzotest runs an in-process fake of the Monzo API.
//
// Each Server is owned by one test, so tests using it can run in parallel.
package monzotest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Unauthorized is the body the API sends for a bad or expired token.
const Unauthorized = `{
	"code": "unauthorized.bad_access_token",
	"error": "invalid_token",
	"error_description": "expired1",
	"message": "expired2"
}`

// Request is a request as received by the fake.
type Request struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	Header        http.Header
}

// Response is a canned reply.
type Response struct {
	Status int
	Body   string
}

// Server serves canned responses per route and records every request.
type Server struct {
	*httptest.Server

	token string

	mu        sync.Mutex
	responses map[string]Response
	requests  []Request
}

// NewServer starts a fake that accepts only "Bearer <token>" and is closed
// when the test ends.
func NewServer(t testing.TB, token string) *Server {
	t.Helper()

	s := &Server{
		token:     token,
		responses: make(map[string]Response),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.requireBearer)
	r.Get("/accounts", s.serve("/accounts"))
	r.Get("/balance", s.serve("/balance"))
	r.Get("/transactions", s.serve("/transactions"))
	r.Get("/transactions/{transactionID}", func(w http.ResponseWriter, r *http.Request) {
		s.serve("/transactions/" + chi.URLParam(r, "transactionID"))(w, r)
	})
	r.Get("/pots/listV1", s.serve("/pots/listV1"))

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Handle sets the reply for GET path. Unset routes answer 404.
func (s *Server) Handle(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = Response{Status: status, Body: body}
}

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			Header:        r.Header.Clone(),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] != s.token {
			writeJSON(w, http.StatusUnauthorized, Unauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) serve(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		resp, ok := s.responses[path]
		s.mu.Unlock()

		if !ok {
			writeJSON(w, http.StatusNotFound, `{"code":"not_found","message":"no canned response"}`)
			return
		}
		writeJSON(w, resp.Status, resp.Body)
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
