package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/zitadel/oidc/v3/pkg/client/rp"
	"github.com/zitadel/oidc/v3/pkg/oidc"
	"github.com/zitadel/oidc/v3/pkg/op"

	jwtpkg "campus/spacehub/pkg/jwt"
)

var ErrInvalidSubject = errors.New("token subject is not a user id")

// Verifier checks RS256 access tokens issued by the campus identity provider
// against its published JWKS.
type Verifier struct {
	verifier  *op.AccessTokenVerifier
	roleClaim string
}

// NewVerifier builds a verifier for issuer whose keys are served at jwksURL.
// A nil client uses a client with a 10s timeout.
func NewVerifier(issuer, jwksURL, roleClaim string, client *http.Client) *Verifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if roleClaim == "" {
		roleClaim = "role"
	}
	keySet := rp.NewRemoteKeySet(client, jwksURL)
	return &Verifier{
		verifier:  op.NewAccessTokenVerifier(issuer, keySet),
		roleClaim: roleClaim,
	}
}

// Verify validates signature, issuer and expiry, then maps the claims onto an identity.
func (v *Verifier) Verify(ctx context.Context, token string) (jwtpkg.Identity, error) {
	claims, err := op.VerifyAccessToken[*oidc.AccessTokenClaims](ctx, token, v.verifier)
	if err != nil {
		return jwtpkg.Identity{}, err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return jwtpkg.Identity{}, fmt.Errorf("%w: %q", ErrInvalidSubject, claims.Subject)
	}

	identity := jwtpkg.Identity{ID: id, Role: jwtpkg.RoleStudent}
	if email, ok := claims.Claims["email"].(string); ok {
		identity.Email = email
	}
	if role, ok := claims.Claims[v.roleClaim].(string); ok && role != "" {
		identity.Role = jwtpkg.Role(role)
	}
	return identity, nil
}
