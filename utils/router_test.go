package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRouter_HealthRoute(t *testing.T) {
	router := NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != `{"status":"ok"}` {
		t.Errorf("unexpected body %q", body)
	}
}

func TestNewRouter_CORSHeaders(t *testing.T) {
	router := NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}

func TestNewRouter_PreflightShortCircuits(t *testing.T) {
	router := NewRouter()
	router.HandleFunc("/movies", func(w http.ResponseWriter, _ *http.Request) {
		t.Error("handler must not run for preflight")
	}).Methods(http.MethodGet, http.MethodOptions)

	req := httptest.NewRequest(http.MethodOptions, "/movies", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", rec.Code)
	}
}
