// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/approval/auth"
	"github.com/danielhkuo/approval/cliparse"
	"github.com/danielhkuo/approval/models"
	"github.com/danielhkuo/approval/store"
	"github.com/danielhkuo/approval/views"
)

// Organizer credentials used by GetTestConfig
const (
	TestUsername = "organizer"
	TestPassword = "test-password"
)

// SetupTestStore creates a store rooted in a fresh temporary directory
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		Username:         TestUsername,
		Password:         TestPassword,
		Hostname:         "http://localhost:3318",
		RetentionAge:     cliparse.DefaultRetentionAge,
		SweepInterval:    time.Hour,
		SweepConcurrency: 3,
	}
}

// NewTestRenderer returns a page renderer for handler tests
func NewTestRenderer(t *testing.T) *views.Renderer {
	t.Helper()

	r, err := views.New(cliparse.DefaultRetentionAge)
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}
	return r
}

// NewTestCredentials returns credentials matching GetTestConfig
func NewTestCredentials(t *testing.T) *auth.Credentials {
	t.Helper()

	creds, err := auth.NewCredentials(TestUsername, TestPassword)
	if err != nil {
		t.Fatalf("Failed to create credentials: %v", err)
	}
	return creds
}

// CreateTestPoll creates a poll and returns its ID
func CreateTestPoll(t *testing.T, st *store.Store, title string, kind models.InputKind, choices ...string) string {
	t.Helper()

	id, err := st.Create(context.Background(), models.CreatePollRequest{
		Title:     title,
		InputKind: kind,
		Choices:   choices,
	})
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return id
}

// SubmitTestResponse appends a response to a poll
func SubmitTestResponse(t *testing.T, st *store.Store, id, responder string, selections ...string) {
	t.Helper()

	if selections == nil {
		selections = []string{}
	}
	err := st.Append(context.Background(), id, models.Response{
		Responder:  responder,
		Selections: selections,
	})
	if err != nil {
		t.Fatalf("Failed to submit test response: %v", err)
	}
}

// MakeFormRequest creates a url-encoded form request
func MakeFormRequest(method, path string, form url.Values, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
