package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess TokenType = "access"
)

// Role is the platform role asserted by the identity provider.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Claims extends jwt.RegisteredClaims with the identity fields this service trusts.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
}

// Identity is the authenticated caller resolved from a token.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

type Manager struct {
	signingKey     []byte
	issuer         string
	accessTokenTTL time.Duration
	now            func() time.Time
}

func NewManager(signingKey string, issuer string, accessTTL time.Duration) *Manager {
	return &Manager{
		signingKey:     []byte(signingKey),
		issuer:         issuer,
		accessTokenTTL: accessTTL,
		now:            time.Now,
	}
}

// GenerateAccessToken creates a signed JWT access token for the given identity.
// Token issuance belongs to the identity provider; this exists for operators and tests.
func (m *Manager) GenerateAccessToken(identity Identity) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTokenTTL)),
			ID:        uuid.New().String(),
		},
		TokenType: TokenTypeAccess,
		Email:     identity.Email,
		Role:      identity.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.signingKey)
}

// Validate parses and validates a token string, returning claims.
func (m *Manager) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.signingKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.Issuer != m.issuer {
		return nil, errors.New("invalid issuer")
	}

	return claims, nil
}

// Verify validates an access token and resolves the caller it names.
func (m *Manager) Verify(_ context.Context, tokenStr string) (Identity, error) {
	claims, err := m.Validate(tokenStr)
	if err != nil {
		return Identity{}, err
	}
	if claims.TokenType != TokenTypeAccess {
		return Identity{}, ErrTokenType
	}
	return claims.Identity()
}

var ErrTokenType = errors.New("invalid token type")

// Identity resolves the caller described by validated claims.
func (c *Claims) Identity() (Identity, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Identity{}, err
	}
	role := c.Role
	if role == "" {
		role = RoleStudent
	}
	return Identity{ID: id, Email: c.Email, Role: role}, nil
}
