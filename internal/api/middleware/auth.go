package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/echofinder/api/internal/api/dto"
	"github.com/echofinder/api/internal/apperr"
	"github.com/echofinder/api/internal/auth"
	"github.com/echofinder/api/internal/database/models"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
	UserRoleKey  contextKey = "user_role"
)

func Auth(tokens auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string

			// Authorization header first, cookie second (browser clients)
			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			}
			if token == "" {
				if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
					token = cookie.Value
				}
			}

			if token == "" {
				writeEnvelope(w, http.StatusUnauthorized,
					dto.NewError(apperr.CodeUnauthorized, "Authentication required"))
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				writeEnvelope(w, http.StatusUnauthorized,
					dto.NewError(apperr.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helper functions to extract values from context
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(UserEmailKey).(string); ok {
		return email
	}
	return ""
}

func GetUserRole(ctx context.Context) models.UserRole {
	if role, ok := ctx.Value(UserRoleKey).(models.UserRole); ok {
		return role
	}
	return ""
}

// RequireRole ensures the authenticated user holds one of the given roles
func RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetUserRole(r.Context())

			for _, role := range roles {
				if userRole == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeEnvelope(w, http.StatusForbidden,
				dto.NewError(apperr.CodeForbidden, "Insufficient permissions"))
		})
	}
}

func writeEnvelope(w http.ResponseWriter, status int, envelope dto.ErrorEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope)
}
