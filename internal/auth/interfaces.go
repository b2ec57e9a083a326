package auth

import "github.com/echofinder/api/internal/database/models"

// TokenService defines the interface for session token operations.
type TokenService interface {
	GenerateToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction check
var _ TokenService = (*JWTService)(nil)
