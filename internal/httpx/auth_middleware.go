package httpx

import (
	"net/http"
	"strings"

	"libraryapi/internal/platform/crypto"
)

// RequireAdmin rejects requests without a valid ADMIN bearer token.
func RequireAdmin(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}

			claims, err := crypto.ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}
			if claims.Role != crypto.RoleAdmin {
				JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Admin role required", nil)
				return
			}

			ctx := ContextWithUser(r.Context(), claims.Sub, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdminForWrites guards non-GET methods with RequireAdmin.
// An empty secret disables the check.
func RequireAdminForWrites(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		guarded := RequireAdmin(secret)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				guarded.ServeHTTP(w, r)
			}
		})
	}
}
