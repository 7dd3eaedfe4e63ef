package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/core/ports"
	"github.com/sweetmart/sweetshop/internal/pkg/metrics"
)

// AuthGate implements ports.AuthGate on top of a TokenService and the
// credential store.
type AuthGate struct {
	tokens *TokenService
	users  ports.AuthRepository
	log    zerolog.Logger
}

func NewAuthGate(tokens *TokenService, users ports.AuthRepository, log zerolog.Logger) *AuthGate {
	return &AuthGate{tokens: tokens, users: users, log: log}
}

// Authenticate never tells the caller which check failed. The reason is
// logged at debug level and counted.
func (g *AuthGate) Authenticate(ctx context.Context, headerValue string) (*domain.User, error) {
	token, ok := ExtractFromHeader(headerValue)
	if !ok {
		return nil, g.deny("missing_token", nil)
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		reason := "invalid_token"
		if errors.Is(err, domain.ErrTokenExpired) {
			reason = "expired_token"
		}
		return nil, g.deny(reason, err)
	}

	user, err := g.users.FindByID(ctx, claims.PrincipalID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, g.deny("unknown_principal", err)
		}
		return nil, err
	}
	return user, nil
}

func (g *AuthGate) Authorize(principal *domain.User, allowed domain.RoleSet) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	if !allowed.Contains(principal.Role) {
		metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
		g.log.Debug().
			Str("principal_id", principal.ID).
			Str("role", string(principal.Role)).
			Interface("allowed", allowed.Roles()).
			Msg("authorization denied")
		return domain.ErrForbidden
	}
	return nil
}

func (g *AuthGate) deny(reason string, cause error) error {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	g.log.Debug().Err(cause).Str("reason", reason).Msg("authentication rejected")
	return domain.ErrUnauthenticated
}
