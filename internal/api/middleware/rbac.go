package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sweetmart/sweetshop/internal/api/handler"
	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/core/ports"
)

// Authorize enforces role-based access control. It must run after
// Authenticate.
func Authorize(gate ports.AuthGate, allowed domain.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(handler.PrincipalKey).(*domain.User)
			if err := gate.Authorize(user, allowed); err != nil {
				return err
			}
			return next(c)
		}
	}
}
