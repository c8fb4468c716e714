package outbound

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned when a bearer token cannot be verified.
var ErrInvalidToken = errors.New("invalid token")

// Identity is a verified caller.
type Identity struct {
	Subject string
	Email   string
}

// TokenVerifierPort verifies identity-provider tokens.
type TokenVerifierPort interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
