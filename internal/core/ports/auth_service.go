package ports

import (
	"context"

	"github.com/sweetmart/sweetshop/internal/core/domain"
)

// RegisterInput carries the fields accepted by registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// AuthGate authenticates a request and authorizes the resulting principal.
type AuthGate interface {
	// Authenticate resolves the principal behind an Authorization header
	// value. Every failure is reported as domain.ErrUnauthenticated.
	Authenticate(ctx context.Context, headerValue string) (*domain.User, error)
	// Authorize fails with domain.ErrForbidden when the principal's role is
	// not in allowed.
	Authorize(principal *domain.User, allowed domain.RoleSet) error
}
