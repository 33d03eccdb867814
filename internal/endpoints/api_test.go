package endpoints_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"philcali.me/notifications/internal/endpoints"
)

func TestVerification(t *testing.T) {
	verifier := endpoints.NewDefaultVerificationService()

	t.Run("ReachableEndpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()
		if err := verifier.Verify(server.URL); err != nil {
			t.Errorf("Expected a reachable endpoint: %s", err)
		}
	})

	t.Run("BrokenEndpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()
		if err := verifier.Verify(server.URL); err == nil {
			t.Error("Expected a failure from a 502 endpoint")
		}
	})

	t.Run("UnreachableEndpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()
		if err := verifier.Verify(server.URL); err == nil {
			t.Error("Expected a failure from a closed endpoint")
		}
	})

	t.Run("NotAnHttpEndpoint", func(t *testing.T) {
		if err := verifier.Verify("mailto:nobody@example.com"); err == nil {
			t.Error("Expected a failure from a mailto endpoint")
		}
	})
}
