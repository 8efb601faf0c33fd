package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims CustomClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func accessClaims(userID uuid.UUID, expiresAt time.Time) CustomClaims {
	return CustomClaims{
		UserID:    userID.String(),
		Email:     "driver@example.com",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			Subject:   userID.String(),
		},
	}
}

func TestTokenService_ValidateAccessToken(t *testing.T) {
	ctx := context.Background()
	service := NewTokenService(testSecret)
	userID := uuid.New()
	future := time.Now().UTC().Add(time.Hour)

	t.Run("accepts a valid access token", func(t *testing.T) {
		token := signToken(t, testSecret, accessClaims(userID, future))

		claims, err := service.ValidateAccessToken(ctx, token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claims.UserID != userID {
			t.Errorf("expected user ID %s, got %s", userID, claims.UserID)
		}
		if claims.Email != "driver@example.com" {
			t.Errorf("unexpected email %s", claims.Email)
		}
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		token := signToken(t, testSecret, accessClaims(userID, time.Now().UTC().Add(-time.Hour)))

		if _, err := service.ValidateAccessToken(ctx, token); err == nil {
			t.Error("expected an error for an expired token")
		}
	})

	t.Run("rejects a token signed with the wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", accessClaims(userID, future))

		if _, err := service.ValidateAccessToken(ctx, token); err == nil {
			t.Error("expected an error for a wrong signature")
		}
	})

	t.Run("rejects a non-access token type", func(t *testing.T) {
		claims := accessClaims(userID, future)
		claims.TokenType = "refresh"
		token := signToken(t, testSecret, claims)

		if _, err := service.ValidateAccessToken(ctx, token); err == nil {
			t.Error("expected an error for a refresh token")
		}
	})

	t.Run("rejects a malformed user ID", func(t *testing.T) {
		claims := accessClaims(userID, future)
		claims.UserID = "not-a-uuid"
		token := signToken(t, testSecret, claims)

		if _, err := service.ValidateAccessToken(ctx, token); err == nil {
			t.Error("expected an error for a malformed user ID")
		}
	})

	t.Run("rejects garbage input", func(t *testing.T) {
		if _, err := service.ValidateAccessToken(ctx, "not.a.jwt"); err == nil {
			t.Error("expected an error for garbage input")
		}
	})
}
