package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() { gin.SetMode(gin.TestMode) }

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(2, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterPurgesExpiredEntries(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := &rateLimiter{limit: 1, window: time.Second, entries: map[string]*rateEntry{}, now: func() time.Time { return clock }}
	rl.entries["1.2.3.4"] = &rateEntry{count: 1, windowEnd: clock.Add(-time.Second)}
	rl.entries["5.6.7.8"] = &rateEntry{count: 1, windowEnd: clock.Add(time.Second)}

	assert.Equal(t, 1, rl.purge())
	assert.Len(t, rl.entries, 1)
}

func TestRateLimiterSweepsOnRequestPath(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := &rateLimiter{limit: 1, window: time.Second, entries: map[string]*rateEntry{}, now: func() time.Time { return clock }}
	rl.nextPurge = clock.Add(purgeInterval)
	rl.entries["1.2.3.4"] = &rateEntry{count: 1, windowEnd: clock.Add(-time.Second)}

	rl.maybePurge()
	assert.Len(t, rl.entries, 1, "not due yet")

	clock = clock.Add(purgeInterval)
	rl.maybePurge()
	assert.Empty(t, rl.entries)
	assert.Equal(t, clock.Add(purgeInterval), rl.nextPurge)

	rl.entries["5.6.7.8"] = &rateEntry{count: 1, windowEnd: clock.Add(-time.Second)}
	rl.maybePurge()
	assert.Len(t, rl.entries, 1, "next sweep waits a full interval")
}

func TestRequestIDPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
}

func TestRecoveryHidesPanic(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(*gin.Context) { panic("secret detail") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowList(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://pos.example.com/"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://pos.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://pos.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection refused")) })
	r.GET("/gone", func(c *gin.Context) { _ = c.Error(fmt.Errorf("load: %w", context.Canceled)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gone", nil))
	assert.Equal(t, statusClientClosed, w.Code)
}
