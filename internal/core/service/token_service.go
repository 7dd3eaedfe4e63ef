package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sweetmart/sweetshop/internal/core/domain"
)

// bearerScheme is matched case-sensitively: "bearer abc" is not a bearer
// credential.
const bearerScheme = "Bearer"

// TokenClaims is the verified content of a token.
type TokenClaims struct {
	PrincipalID string
	Role        domain.Role
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

type tokenClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed, time-bounded tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source used for issuing and verifying.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs a token for the principal that expires after the configured
// lifetime.
func (s *TokenService) Issue(principalID string, role domain.Role) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   principalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, structure and expiry. It returns
// domain.ErrTokenExpired once the embedded expiry is reached and
// domain.ErrTokenInvalid for anything else; the parser's own error is never
// surfaced.
func (s *TokenService) Verify(token string) (*TokenClaims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return nil, domain.ErrTokenInvalid
	}

	out := &TokenClaims{
		PrincipalID: claims.Subject,
		Role:        claims.Role,
		ExpiresAt:   claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// ExtractFromHeader returns the token of a "Bearer <token>" header value.
// ok is false for an empty value or anything that is not exactly the
// scheme keyword and one token separated by a single space.
func ExtractFromHeader(headerValue string) (token string, ok bool) {
	parts := strings.Split(headerValue, " ")
	if len(parts) != 2 || parts[0] != bearerScheme || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
