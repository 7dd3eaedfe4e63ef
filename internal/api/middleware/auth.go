package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sweetmart/sweetshop/internal/api/handler"
	"github.com/sweetmart/sweetshop/internal/core/ports"
)

// Authenticate resolves the Authorization header through the gate and
// stores the principal under handler.PrincipalKey.
func Authenticate(gate ports.AuthGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := gate.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			c.Set(handler.PrincipalKey, user)
			return next(c)
		}
	}
}
