package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/neevdiamonds/storefront-backend/pkg/config"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "middleware-test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func sessionTestConfig() config.SessionConfig {
	return config.SessionConfig{
		CookieName: "neev_session",
		CartTTL:    time.Hour,
	}
}

func TestRequestIDKeepsForwardedUUID(t *testing.T) {
	forwarded := uuid.NewString()
	handler := RequestID(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", forwarded)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, forwarded, resp.Header().Get("X-Request-Id"))
}

func TestRequestIDReplacesInvalidHeader(t *testing.T) {
	handler := RequestID(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "not-a-uuid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	echoed := resp.Header().Get("X-Request-Id")
	require.NotEqual(t, "not-a-uuid", echoed)
	_, err := uuid.Parse(echoed)
	require.NoError(t, err)
}

func TestRecovererWritesErrorEnvelope(t *testing.T) {
	handler := Recoverer(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	require.Contains(t, resp.Body.String(), "INTERNAL_ERROR")
}

func TestSessionReusesValidCookie(t *testing.T) {
	cfg := sessionTestConfig()
	existing := uuid.NewString()

	var seen string
	handler := Session(cfg, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: existing})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, existing, seen)
	require.Empty(t, resp.Result().Cookies(), "a valid cookie must not be reissued")
}

func TestSessionRejectsMalformedCookie(t *testing.T) {
	cfg := sessionTestConfig()

	var seen string
	handler := Session(cfg, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "../../etc/passwd"})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Result().Cookies(), "a fresh cookie must be issued")
}
