package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/aiclinimatch/internal/adapters/cache"
	redisclient "github.com/zatekoja/aiclinimatch/internal/infrastructure/clients/redis"
)

func countingHandler(calls *int, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"ok":true}`))
	})
}

func newRedisCacheMiddleware(t *testing.T) (*CacheMiddleware, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheMiddleware(cache.NewRedisAdapter(redisclient.Wrap(client), "test:")), mr
}

func TestCacheMiddleware_CachesCatalogReads(t *testing.T) {
	m, _ := newRedisCacheMiddleware(t)
	calls := 0
	handler := m.Middleware(countingHandler(&calls, http.StatusOK))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/specialists/petrova", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/specialists/petrova", nil))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"ok":true}`, second.Body.String())
}

func TestCacheMiddleware_SkipsSearchAndErrors(t *testing.T) {
	m, _ := newRedisCacheMiddleware(t)

	calls := 0
	handler := m.Middleware(countingHandler(&calls, http.StatusOK))
	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/specialists/search?q=cf", nil))
	}
	assert.Equal(t, 2, calls)

	failing := 0
	handler = m.Middleware(countingHandler(&failing, http.StatusBadGateway))
	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/geocode?zip=00000", nil))
	}
	assert.Equal(t, 2, failing)
}

func TestCacheMiddleware_RouteConfig(t *testing.T) {
	m := NewCacheMiddleware(nil)

	assert.True(t, m.getRouteConfig("/api/specialists").Enabled)
	assert.True(t, m.getRouteConfig("/api/specialists/khan").Enabled)
	assert.False(t, m.getRouteConfig("/api/specialists/search").Enabled)
	assert.False(t, m.getRouteConfig("/api/referrals").Enabled)
}

func TestCORSMiddleware(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://app.example, https://admin.example")
	calls := 0
	handler := CORSMiddleware(countingHandler(&calls, http.StatusOK))

	req := httptest.NewRequest(http.MethodOptions, "/api/referrals", nil)
	req.Header.Set("Origin", "https://admin.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://admin.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Zero(t, calls)

	req = httptest.NewRequest(http.MethodGet, "/api/specialists", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 1, calls)
}

func TestObservabilityMiddleware_RequestID(t *testing.T) {
	calls := 0
	handler := ObservabilityMiddleware(nil)(countingHandler(&calls, http.StatusOK))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestLoggingMiddleware_PassesStatus(t *testing.T) {
	calls := 0
	handler := LoggingMiddleware(countingHandler(&calls, http.StatusTeapot))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, 1, calls)
}

func TestCacheControlFor(t *testing.T) {
	assert.Equal(t, "public, max-age=120, must-revalidate", cacheControlFor(http.MethodGet, "/api/specialists/search"))
	assert.Equal(t, "public, max-age=300, must-revalidate", cacheControlFor(http.MethodGet, "/api/specialists/khan"))
	assert.Equal(t, "public, max-age=86400", cacheControlFor(http.MethodGet, "/api/geocode"))
	assert.Equal(t, "private, no-store", cacheControlFor(http.MethodGet, "/api/referrals"))
	assert.Equal(t, "no-store", cacheControlFor(http.MethodPost, "/api/referrals"))
}

func TestResponseOptimization_GzipAndETag(t *testing.T) {
	calls := 0
	handler := ResponseOptimization(countingHandler(&calls, http.StatusOK))

	req := httptest.NewRequest(http.MethodGet, "/api/specialists", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	req = httptest.NewRequest(http.MethodGet, "/api/specialists", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
}
