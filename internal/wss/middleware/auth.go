package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/jwt"
)

// AuthMiddleware handles JWT authentication for WebSocket connections
type AuthMiddleware struct {
	jwtManager *jwt.JWTManager
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(jwtManager *jwt.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
	}
}

// Authenticate validates a JWT token and returns the identity claims.
// Connections are authenticated once at upgrade time; every message on the
// socket afterwards acts as that identity.
func (m *AuthMiddleware) Authenticate(token string) (*jwt.CustomClaims, error) {
	if token == "" {
		return nil, errors.New("token is required")
	}

	// Remove "Bearer " prefix if present
	if after, ok := strings.CutPrefix(token, "Bearer "); ok {
		token = after
	}

	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		log.Printf("[Auth] JWT validation failed: %v", err)
		return nil, errors.New("invalid or expired token")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no userId")
	}

	return claims, nil
}
