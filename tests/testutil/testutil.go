// Package testutil holds shared helpers for package tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avolkov/calendar-assistant/internal/api"
	"github.com/avolkov/calendar-assistant/internal/session"
)

// NewSessionStore creates an in-memory session store with all
// migrations applied. It is closed automatically when the test ends.
func NewSessionStore(t *testing.T) *session.Store {
	t.Helper()

	s, err := session.NewStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewAPIClient starts a test HTTP server for the given handler and
// returns a client pointed at it. The server stops when the test ends.
func NewAPIClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return api.NewClient(srv.URL, 5*time.Second)
}
