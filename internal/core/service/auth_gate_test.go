package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/infrastructure/db/memory"
)

type failingUserRepo struct {
	*memory.AuthRepository
	err error
}

func (r failingUserRepo) FindByID(context.Context, string) (*domain.User, error) {
	return nil, r.err
}

func newGateFixture(t *testing.T) (*AuthGate, *TokenService, *memory.AuthRepository, *domain.User) {
	t.Helper()
	users := memory.NewAuthRepository()
	tokens := NewTokenService("secret", time.Hour)
	alice, err := users.Create(context.Background(), &domain.User{Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser})
	require.NoError(t, err)
	return NewAuthGate(tokens, users, zerolog.Nop()), tokens, users, alice
}

func TestAuthGate_AuthenticateValidToken(t *testing.T) {
	gate, tokens, _, alice := newGateFixture(t)
	token, err := tokens.Issue(alice.ID, alice.Role)
	require.NoError(t, err)

	got, err := gate.Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, domain.RoleUser, got.Role)
}

func TestAuthGate_RoleComesFromStoreNotToken(t *testing.T) {
	gate, tokens, _, alice := newGateFixture(t)
	// token claims admin, stored principal is a user
	token, err := tokens.Issue(alice.ID, domain.RoleAdmin)
	require.NoError(t, err)

	got, err := gate.Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, got.Role)
}

func TestAuthGate_AuthenticateRejects(t *testing.T) {
	gate, tokens, _, alice := newGateFixture(t)
	valid, err := tokens.Issue(alice.ID, alice.Role)
	require.NoError(t, err)

	expired, err := NewTokenService("secret", time.Minute).
		WithClock(func() time.Time { return time.Now().Add(-time.Hour) }).
		Issue(alice.ID, alice.Role)
	require.NoError(t, err)

	foreign, err := NewTokenService("other", time.Hour).Issue(alice.ID, alice.Role)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":     "",
		"lowercase":   "bearer " + valid,
		"basic":       "Basic " + valid,
		"expired":     "Bearer " + expired,
		"wrong key":   "Bearer " + foreign,
		"not a token": "Bearer abc",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := gate.Authenticate(context.Background(), header)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}

func TestAuthGate_StalePrincipal(t *testing.T) {
	gate, tokens, users, alice := newGateFixture(t)
	token, err := tokens.Issue(alice.ID, alice.Role)
	require.NoError(t, err)
	require.NoError(t, users.Delete(context.Background(), alice.ID))

	_, err = gate.Authenticate(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthGate_StoreFailureIsNotUnauthenticated(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	boom := errors.New("connection reset")
	gate := NewAuthGate(tokens, failingUserRepo{AuthRepository: memory.NewAuthRepository(), err: boom}, zerolog.Nop())

	token, err := tokens.Issue("u1", domain.RoleUser)
	require.NoError(t, err)

	_, err = gate.Authenticate(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthGate_Authorize(t *testing.T) {
	gate, _, _, _ := newGateFixture(t)
	admin := &domain.User{ID: "a", Role: domain.RoleAdmin}
	user := &domain.User{ID: "u", Role: domain.RoleUser}

	assert.NoError(t, gate.Authorize(admin, domain.Restockers))
	assert.NoError(t, gate.Authorize(admin, domain.CatalogWriters))
	assert.NoError(t, gate.Authorize(user, domain.Purchasers))
	assert.ErrorIs(t, gate.Authorize(user, domain.Restockers), domain.ErrForbidden)
	assert.ErrorIs(t, gate.Authorize(user, domain.CatalogWriters), domain.ErrForbidden)
	assert.ErrorIs(t, gate.Authorize(nil, domain.Purchasers), domain.ErrUnauthenticated)
	assert.ErrorIs(t, gate.Authorize(&domain.User{ID: "x", Role: "guest"}, domain.Purchasers), domain.ErrForbidden)
}
