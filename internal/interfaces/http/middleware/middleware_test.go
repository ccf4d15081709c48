package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizprompt-api/internal/application/quota"
	"bizprompt-api/pkg/logger"
)

type countingLimiter struct {
	allowed int
	err     error
	keys    []string
}

func (l *countingLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return false, l.err
	}
	l.allowed++
	return l.allowed <= limit, nil
}

type fixedBudget struct {
	enabled bool
	err     error
}

func (b fixedBudget) Enabled() bool { return b.enabled }

func (b fixedBudget) CheckDailyTokens(context.Context) (int64, error) { return 0, b.err }

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.POST("/api/generate", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func post(r http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	limiter := &countingLimiter{}
	r := newEngine(RateLimit(RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute}, limiter, nil))

	assert.Equal(t, http.StatusOK, post(r).Code)
	assert.Equal(t, http.StatusOK, post(r).Code)

	w := post(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
	assert.Equal(t, "ratelimit:generate:203.0.113.7", limiter.keys[0])
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &countingLimiter{err: errors.New("redis down")}
	r := newEngine(RateLimit(RateLimitConfig{Enabled: true, Requests: 1}, limiter, nil))

	assert.Equal(t, http.StatusOK, post(r).Code)
	assert.Equal(t, http.StatusOK, post(r).Code)
}

func TestRateLimitDisabled(t *testing.T) {
	limiter := &countingLimiter{}
	r := newEngine(RateLimit(RateLimitConfig{Enabled: false}, limiter, nil))

	assert.Equal(t, http.StatusOK, post(r).Code)
	assert.Empty(t, limiter.keys)
}

func TestDailyTokenBudget(t *testing.T) {
	r := newEngine(DailyTokenBudget(fixedBudget{enabled: true, err: quota.TokenBudgetExceededError{Max: 10, Used: 12}}))
	assert.Equal(t, http.StatusTooManyRequests, post(r).Code)

	r = newEngine(DailyTokenBudget(fixedBudget{enabled: true, err: errors.New("db down")}))
	assert.Equal(t, http.StatusOK, post(r).Code)

	r = newEngine(DailyTokenBudget(fixedBudget{enabled: false, err: errors.New("unused")}))
	assert.Equal(t, http.StatusOK, post(r).Code)

	r = newEngine(DailyTokenBudget(nil))
	assert.Equal(t, http.StatusOK, post(r).Code)
}

func TestRequestIDPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())

	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen, _ = c.Request.Context().Value(logger.RequestIDKey).(string)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "upstream-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-1", seen)
	assert.Equal(t, "upstream-1", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NotEmpty(t, seen)
	assert.NotEqual(t, "upstream-1", seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestRecoveryReturnsJSONError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
