package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sealedapi/middleware"
)

func TestRequestIDDefaultConfiguration(t *testing.T) {
	t.Parallel()

	var capturedID string
	h := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.GetRequestID(r.Context())
		assert.True(t, ok, "Request ID should be present in context")
		capturedID = id
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, capturedID, 36, "Default ID should be UUID v4 format")
	assert.Equal(t, capturedID, w.Header().Get("X-Request-ID"))
}

func TestRequestIDUsesExisting(t *testing.T) {
	t.Parallel()

	var capturedID string
	h := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID, _ = middleware.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "client-id")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "client-id", capturedID)
	assert.Equal(t, "client-id", w.Header().Get("X-Request-ID"))
}

func TestRequestIDCustomConfig(t *testing.T) {
	t.Parallel()

	h := middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:  func() string { return "custom-123" },
		HeaderName: "X-Trace-ID",
		Skip:       func(r *http.Request) bool { return r.URL.Path == "/health" },
	})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Trace-ID", "ignored")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "custom-123", w.Header().Get("X-Trace-ID"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("X-Trace-ID"))
}

func TestGetRequestIDMissing(t *testing.T) {
	t.Parallel()
	_, ok := middleware.GetRequestID(t.Context())
	assert.False(t, ok)
}
