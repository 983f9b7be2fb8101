package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mmynk/messbill/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// SubjectIDKey is the context key for storing the authenticated subject ID.
	SubjectIDKey contextKey = "subject_id"
	// RoleKey is the context key for storing the authenticated role.
	RoleKey contextKey = "role"
)

// GetSubjectID extracts the subject ID from the context.
// Returns empty string if not found.
func GetSubjectID(ctx context.Context) string {
	id, _ := ctx.Value(SubjectIDKey).(string)
	return id
}

// GetRole extracts the role from the context.
// Returns empty string if not found.
func GetRole(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}

// RequireRole returns a middleware that validates the Bearer token and requires
// the given role. Missing or invalid tokens get 401, a valid token with another
// role gets 403.
func RequireRole(jwtManager *auth.JWTManager, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				deny(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				deny(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				deny(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
				return
			}
			if claims.Role != role {
				deny(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), SubjectIDKey, claims.SubjectID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
