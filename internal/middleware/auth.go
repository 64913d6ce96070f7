package middleware

import (
	"context"
	"net/http"
	"strings"

	"tryout-be/internal/auth"
)

type contextKey string

const (
	StaffClaimsKey contextKey = "staffClaims"
)

// RequireStaff guards settlement endpoints: only requests carrying a
// valid staff token get through. Passing claims down via context lets
// handlers attribute manual confirmations to an operator.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseJWT(tokenStr)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if claims.Role != auth.RoleAdmin && claims.Role != auth.RoleClub {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), StaffClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StaffFromContext returns the authenticated staff claims, if any.
func StaffFromContext(ctx context.Context) (*auth.StaffClaims, bool) {
	claims, ok := ctx.Value(StaffClaimsKey).(*auth.StaffClaims)
	return claims, ok
}
