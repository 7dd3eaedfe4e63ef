package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/sweetmart/sweetshop/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", domain.NewValidationError("price", "price must be greater than or equal to 0"), http.StatusBadRequest, "price must be greater than or equal to 0"},
		{"insufficient", &domain.InsufficientStockError{Available: 3, Requested: 7}, http.StatusBadRequest, "Insufficient stock. Available: 3, Requested: 7"},
		{"contended purchase", fmt.Errorf("adjust sweet s1: %w", domain.ErrInsufficientStock), http.StatusBadRequest, "Insufficient stock"},
		{"wrapped not found", fmt.Errorf("get: %w", domain.ErrSweetNotFound), http.StatusNotFound, "Sweet not found"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "Authentication required. Please provide a valid token."},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "Access denied. Insufficient permissions."},
		{"user exists", domain.ErrUserExists, http.StatusBadRequest, "User already exists"},
		{"rate limited", echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"), http.StatusTooManyRequests, "rate limit exceeded"},
		{"unexpected", errors.New("mongo: server selection timeout on 10.0.0.3"), http.StatusInternalServerError, "internal server error"},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/sweets", nil), rec)

			h(tc.err, c)

			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
			assert.Contains(t, rec.Body.String(), fmt.Sprintf(`"message":%q`, tc.msg))
		})
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrForbidden, c)
	assert.Equal(t, "done", rec.Body.String())
}
