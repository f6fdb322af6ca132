// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/approval/auth"
	"github.com/danielhkuo/approval/models"
)

func TestWithLogging(t *testing.T) {
	handlerCalled := false
	var sawLogger bool
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		sawLogger = Logger(r) != slog.Default()
		Logger(r).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("success"))
	}

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	WithLogging(testHandler)(w, req)

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if !sawLogger {
		t.Error("Expected a request-scoped logger in the context")
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status 418, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("Expected a UUID request ID, got %q", w.Header().Get(RequestIDHeader))
	}
}

func TestWithLogging_UniqueRequestIDs(t *testing.T) {
	h := WithLogging(func(w http.ResponseWriter, r *http.Request) {})
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest("GET", "/", nil))
		id := w.Header().Get(RequestIDHeader)
		if seen[id] {
			t.Fatalf("duplicate request ID %s", id)
		}
		seen[id] = true
	}
}

func TestLogger_OutsideMiddleware(t *testing.T) {
	if Logger(httptest.NewRequest("GET", "/", nil)) == nil {
		t.Error("Logger() should fall back to the default logger")
	}
}

func TestBasicAuth(t *testing.T) {
	creds, err := auth.NewCredentials("approval", "secret")
	if err != nil {
		t.Fatalf("NewCredentials: %v", err)
	}
	h := BasicAuth(creds, "Approval", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	testCases := []struct {
		name       string
		setAuth    bool
		user, pass string
		wantStatus int
	}{
		{"no credentials", false, "", "", http.StatusUnauthorized},
		{"wrong password", true, "approval", "wrong", http.StatusUnauthorized},
		{"wrong user", true, "root", "secret", http.StatusUnauthorized},
		{"valid", true, "approval", "secret", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.setAuth {
				req.SetBasicAuth(tc.user, tc.pass)
			}
			w := httptest.NewRecorder()
			h(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
			if tc.wantStatus == http.StatusUnauthorized {
				if got := w.Header().Get("WWW-Authenticate"); got != `Basic realm="Approval"` {
					t.Errorf("Expected WWW-Authenticate challenge, got %q", got)
				}
			}
		})
	}
}

func TestNoCache(t *testing.T) {
	w := httptest.NewRecorder()
	NoCache(func(w http.ResponseWriter, r *http.Request) {})(w, httptest.NewRequest("GET", "/", nil))

	expected := map[string]string{
		"Cache-Control": "no-store, no-cache, must-revalidate, proxy-revalidate",
		"Pragma":        "no-cache",
		"Expires":       "0",
	}
	for header, value := range expected {
		if got := w.Header().Get(header); got != value {
			t.Errorf("Expected %s %q, got %q", header, value, got)
		}
	}
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusOK, map[string]string{"id": "123"})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %q", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["id"] != "123" {
		t.Errorf("Expected id 123, got %q", body["id"])
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusNotFound, "Poll not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	var body models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Error != "Not Found" || body.Message != "Poll not found" {
		t.Errorf("Unexpected error body %+v", body)
	}
}

func TestTextError(t *testing.T) {
	w := httptest.NewRecorder()
	TextError(w, http.StatusNotFound, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if w.Body.String() != "Not Found\n" {
		t.Errorf("Expected default message, got %q", w.Body.String())
	}
}

func TestCORS(t *testing.T) {
	called := false
	h := CORS(func(w http.ResponseWriter, r *http.Request) { called = true })

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("OPTIONS", "/api/polls/x", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected preflight 204, got %d", w.Code)
	}
	if called {
		t.Error("Preflight should not reach the handler")
	}

	w = httptest.NewRecorder()
	h(w, httptest.NewRequest("GET", "/api/polls/x", nil))
	if !called {
		t.Error("GET should reach the handler")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected Access-Control-Allow-Origin *")
	}
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"X-Forwarded-For chain", "203.0.113.1, 10.0.0.1", "", "10.0.0.2:1234", "203.0.113.1"},
		{"X-Forwarded-For single", "203.0.113.1", "", "10.0.0.2:1234", "203.0.113.1"},
		{"X-Real-IP", "", "198.51.100.7", "10.0.0.2:1234", "198.51.100.7"},
		{"RemoteAddr", "", "", "192.0.2.5:5555", "192.0.2.5"},
		{"RemoteAddr without port", "", "", "192.0.2.5", "192.0.2.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xri != "" {
				req.Header.Set("X-Real-IP", tc.xri)
			}
			if got := GetClientIP(req); got != tc.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}
