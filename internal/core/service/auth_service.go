package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/core/ports"
)

const (
	minPasswordLength = 6
	// bcrypt only accepts passwords up to 72 bytes.
	maxPasswordLength = 72
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.AuthRepository
	tokens *TokenService
}

func NewAuthService(repo ports.AuthRepository, tokens *TokenService) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// Register creates a principal with role user and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	user, err := s.CreateUser(ctx, in, domain.RoleUser)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("register: issue token: %w", err)
	}
	return token, user, nil
}

// CreateUser hashes the password and stores a principal with the given role.
// Registration always passes domain.RoleUser; the seed command creates admins.
func (s *AuthService) CreateUser(ctx context.Context, in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case name == "":
		return nil, domain.NewValidationError("name", "Name is required")
	case email == "":
		return nil, domain.NewValidationError("email", "Email is required")
	case len(in.Password) < minPasswordLength:
		return nil, domain.NewValidationError("password", "Password must be at least 6 characters")
	case len(in.Password) > maxPasswordLength:
		return nil, domain.NewValidationError("password", "Password cannot exceed 72 bytes")
	case !role.Valid():
		return nil, domain.NewValidationError("role", "Invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Login checks the credentials and returns a fresh token. An unknown email and
// a wrong password are both reported as domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	return token, user, nil
}
