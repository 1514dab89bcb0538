package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quantumsec/phishguard/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"

		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")

		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP when X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")

		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})
}

func TestRateLimitRejectsOverQuota(t *testing.T) {
	config := httpx.RateLimitConfig{
		RequestsPerWindow: 3,
		Window:            time.Minute,
		Burst:             3,
	}
	limited := httpx.RateLimitByIP(config)(okHandler())

	for i := range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/predict", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	require.JSONEq(t,
		`{"message":"Too many requests, please try again later."}`,
		rec.Body.String(),
	)
}

func TestRateLimitTracksKeysSeparately(t *testing.T) {
	config := httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	}
	limited := httpx.RateLimitByIP(config)(okHandler())

	first := httptest.NewRequest(http.MethodPost, "/api/predict", nil)
	first.RemoteAddr = "192.168.1.1:1111"
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	blocked := httptest.NewRequest(http.MethodPost, "/api/predict", nil)
	blocked.RemoteAddr = "192.168.1.1:2222"
	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, blocked)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	other := httptest.NewRequest(http.MethodPost, "/api/predict", nil)
	other.RemoteAddr = "192.168.1.2:3333"
	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, other)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitWindowRecovers(t *testing.T) {
	config := httpx.RateLimitConfig{
		RequestsPerWindow: 100,
		Window:            time.Second, // fast window so the bucket refills in-test
		Burst:             1,
	}
	limited := httpx.RateLimitByIP(config)(okHandler())

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send())
	require.Equal(t, http.StatusTooManyRequests, send())

	time.Sleep(50 * time.Millisecond) // > 1/100th of the window
	require.Equal(t, http.StatusOK, send())
}

func TestRateLimitAllowsWhenKeyMissing(t *testing.T) {
	config := httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	}
	empty := func(r *http.Request) string { return "" }
	limited := httpx.RateLimitMiddleware(config, empty)(okHandler())

	for range 3 {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestParseRateLimitFromEnv(t *testing.T) {
	defaults := httpx.RateLimitConfig{
		RequestsPerWindow: 100,
		Window:            15 * time.Minute,
		Burst:             100,
	}

	t.Run("defaults when unset", func(t *testing.T) {
		require.Equal(t, defaults, httpx.ParseRateLimitFromEnv("TESTPROFILE", defaults))
	})

	t.Run("overrides applied", func(t *testing.T) {
		t.Setenv("RATELIMIT_TESTPROFILE_REQUESTS", "5")
		t.Setenv("RATELIMIT_TESTPROFILE_WINDOW_SEC", "60")
		t.Setenv("RATELIMIT_TESTPROFILE_BURST", "5")

		got := httpx.ParseRateLimitFromEnv("TESTPROFILE", defaults)
		require.Equal(t, 5, got.RequestsPerWindow)
		require.Equal(t, time.Minute, got.Window)
		require.Equal(t, 5, got.Burst)
	})

	t.Run("invalid values keep defaults", func(t *testing.T) {
		t.Setenv("RATELIMIT_TESTPROFILE_REQUESTS", "banana")
		t.Setenv("RATELIMIT_TESTPROFILE_WINDOW_SEC", "-10")
		t.Setenv("RATELIMIT_TESTPROFILE_BURST", "0")

		require.Equal(t, defaults, httpx.ParseRateLimitFromEnv("TESTPROFILE", defaults))
	})
}
