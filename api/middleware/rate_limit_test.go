package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func doRequest(t *testing.T, handler echo.HandlerFunc, ip string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	return handler(e.NewContext(req, rec))
}

func TestRateLimiterBurst(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(1), 2, time.Minute)
	handler := limiter.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, doRequest(t, handler, "203.0.113.1"))
	require.NoError(t, doRequest(t, handler, "203.0.113.1"))

	err := doRequest(t, handler, "203.0.113.1")
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(1), 1, time.Minute)
	handler := limiter.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, doRequest(t, handler, "203.0.113.1"))
	assert.Error(t, doRequest(t, handler, "203.0.113.1"))

	// A different client has its own bucket.
	assert.NoError(t, doRequest(t, handler, "203.0.113.2"))
}
