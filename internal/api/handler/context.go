package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sweetmart/sweetshop/internal/core/domain"
)

// PrincipalKey is the echo context key the authentication middleware stores
// the resolved *domain.User under.
const PrincipalKey = "principal"

// principal returns the user injected by the authentication middleware. Its
// absence means the route was wired without the middleware, which is treated
// as unauthenticated.
func principal(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(PrincipalKey).(*domain.User)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
