package auth

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireRole rejects callers whose role is not one of allowed. It must run
// after an Authenticator.
func RequireRole(allowed ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, found := UserFromContext(r.Context())
			if !found {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			if !user.HasRole(allowed...) {
				zap.S().Named("auth").Debugw("role not allowed", "user", user.Username, "role", user.Role, "path", r.URL.Path)
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
