// Package identity verifies identity-provider access tokens against a JWKS
// endpoint and validates issuer and audience.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/rezzy/server/internal/shared/config"
)

const defaultLeeway = 30 * time.Second

var validMethods = []string{
	jwt.SigningMethodRS256.Name,
	jwt.SigningMethodRS384.Name,
	jwt.SigningMethodRS512.Name,
	jwt.SigningMethodES256.Name,
}

// Claims are the token claims the service reads.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Verifier implements outbound.TokenVerifierPort.
type Verifier struct {
	keyfunc jwt.Keyfunc
	parser  *jwt.Parser
}

// NewJWKSVerifier builds a verifier that fetches and refreshes signing keys
// from the configured JWKS URL until ctx is done.
func NewJWKSVerifier(ctx context.Context, cfg *config.AuthConfig) (*Verifier, error) {
	jwksURL := strings.TrimSpace(cfg.JWKSURL)
	issuer := strings.TrimSpace(cfg.Issuer)
	if jwksURL == "" && issuer != "" {
		jwksURL = strings.TrimSuffix(issuer, "/") + "/.well-known/jwks.json"
	}
	if jwksURL == "" {
		return nil, errors.New("auth jwks url or issuer must be set")
	}

	keyProvider, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("init jwks keyfunc: %w", err)
	}

	return NewVerifier(keyProvider.Keyfunc, issuer, cfg.Audience, cfg.Leeway), nil
}

// NewVerifier builds a verifier around an arbitrary key lookup. Empty issuer
// or audience disables that check.
func NewVerifier(kf jwt.Keyfunc, issuer, audience string, leeway time.Duration) *Verifier {
	if leeway <= 0 {
		leeway = defaultLeeway
	}

	opts := []jwt.ParserOption{
		jwt.WithLeeway(leeway),
		jwt.WithValidMethods(validMethods),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	return &Verifier{keyfunc: kf, parser: jwt.NewParser(opts...)}
}

// Verify parses and validates a bearer token.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*outbound.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, v.keyfunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", outbound.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, outbound.ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: token missing sub", outbound.ErrInvalidToken)
	}

	return &outbound.Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
	}, nil
}

// Compile-time check
var _ outbound.TokenVerifierPort = (*Verifier)(nil)
