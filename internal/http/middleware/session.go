// Package middleware holds the HTTP middleware shared across routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/agendaluz/studio-agenda/internal/auth"
)

// SessionVerifier validates a bearer token into a session.
type SessionVerifier interface {
	Verify(token string) (auth.Session, error)
}

// RequireSession enforces a valid session token and attaches the session to
// the request context.
func RequireSession(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			session, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}

// RequireMaster restricts a route to the studio owner. It must run after
// RequireSession.
func RequireMaster(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.SessionFromContext(r.Context())
		if !ok || session.Role != auth.RoleMaster {
			http.Error(w, "owner access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
