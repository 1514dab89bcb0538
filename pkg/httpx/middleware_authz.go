package httpx

import (
	"net/http"
	"strings"
)

// RequireRole rejects callers whose resolved role differs from role. It must
// sit after AuthnMiddleware in the chain; an unauthenticated request gets 401
// rather than leaking whether the route is role-gated.
func RequireRole(role string) Middleware {
	message := capitalize(role) + " access required."

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, "Not authorized. No token.")
				return
			}

			if identity.Role != role {
				WriteError(w, http.StatusForbidden, message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
