package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetmart/sweetshop/internal/api/handler"
	"github.com/sweetmart/sweetshop/internal/core/domain"
)

type stubGate struct {
	authenticateFn func(ctx context.Context, headerValue string) (*domain.User, error)
}

func (s *stubGate) Authenticate(ctx context.Context, headerValue string) (*domain.User, error) {
	return s.authenticateFn(ctx, headerValue)
}

func (s *stubGate) Authorize(principal *domain.User, allowed domain.RoleSet) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	if !allowed.Contains(principal.Role) {
		return domain.ErrForbidden
	}
	return nil
}

func newContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthenticate_SetsPrincipal(t *testing.T) {
	alice := &domain.User{ID: "u1", Email: "alice@example.com", Role: domain.RoleUser}
	gate := &stubGate{authenticateFn: func(_ context.Context, headerValue string) (*domain.User, error) {
		assert.Equal(t, "Bearer tkn", headerValue)
		return alice, nil
	}}
	c, rec := newContext("Bearer tkn")

	called := false
	h := Authenticate(gate)(func(c echo.Context) error {
		called = true
		assert.Same(t, alice, c.Get(handler.PrincipalKey))
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_RejectsWithoutCallingNext(t *testing.T) {
	gate := &stubGate{authenticateFn: func(context.Context, string) (*domain.User, error) {
		return nil, domain.ErrUnauthenticated
	}}
	c, _ := newContext("")

	h := Authenticate(gate)(func(echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})

	err := h(c)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
	assert.Nil(t, c.Get(handler.PrincipalKey))
}
