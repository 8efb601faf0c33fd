package adapter

import (
	"context"

	"github.com/google/uuid"
)

// TokenClaims carries the identity extracted from a validated access token.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

// TokenService validates access tokens minted by the external auth service.
type TokenService interface {
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}
