package http

import (
	"context"
	"net/http"
	"strings"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/security"
)

type contextKey string

const claimsKey contextKey = "claims"

// Authenticate validates the bearer token and stores its claims on the
// request context.
func Authenticate(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil || claims.Type != security.TokenTypeAccess {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

func claimsFrom(r *http.Request) *security.UserClaims {
	claims, _ := r.Context().Value(claimsKey).(*security.UserClaims)
	return claims
}

// requireRole returns the caller's claims only when they hold one of the
// given roles; otherwise it writes a 403 and returns nil.
func requireRole(w http.ResponseWriter, r *http.Request, roles ...domain.Role) *security.UserClaims {
	claims := claimsFrom(r)
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return nil
	}
	for _, role := range roles {
		if claims.Role == string(role) {
			return claims
		}
	}
	writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	return nil
}
