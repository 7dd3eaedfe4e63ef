package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_BurstThenReject(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, ok, "keys are limited independently")
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func TestRateLimit_Returns429OverBudget(t *testing.T) {
	mw := RateLimit(NewMemoryLimiter(1, time.Minute), "auth", zerolog.Nop())
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	c, rec := newContext("")
	require.NoError(t, mw(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = newContext("")
	err := mw(next)(c)
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusTooManyRequests, he.Code)
	assert.Equal(t, "rate limit exceeded", he.Message)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mw := RateLimit(failingLimiter{}, "auth", zerolog.Nop())
	c, rec := newContext("")

	require.NoError(t, mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
