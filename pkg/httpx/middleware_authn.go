package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/quantumsec/phishguard/pkg/jwtx"
	"github.com/quantumsec/phishguard/pkg/slogx"
)

// IdentityResolver maps a verified token subject to a live identity. It must
// fail when the user no longer exists so stale tokens stop working the moment
// the row is gone.
type IdentityResolver func(ctx context.Context, userID string) (Identity, error)

// AuthnMiddleware verifies the bearer token and resolves its subject against
// the credential store before letting the request through.
func AuthnMiddleware(v jwtx.Verifier, resolve IdentityResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "Not authorized. No token.")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("token verification failed", "err", err)
				WriteError(w, http.StatusUnauthorized, "Not authorized. Invalid token.")
				return
			}

			identity, err := resolve(ctx, claims.Subject)
			if err != nil {
				// Valid signature but the subject is gone. Same 401 as a bad
				// token so callers learn nothing about account existence.
				log.Warn("token subject not found", "user_id", claims.Subject)
				WriteError(w, http.StatusUnauthorized, "Not authorized. Invalid token.")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, identity)))
		})
	}
}
