package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/alunodb/roster-be/internal/models"
	"github.com/alunodb/roster-be/internal/services"
)

type contextKey string

const principalKey = contextKey("principal")

// PrincipalFromContext returns the authenticated principal for the
// request, or ok=false for anonymous requests.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok
}

// LoadPrincipal resolves the current principal from the session cookie and
// stores it in the request context. A missing, invalid or expired cookie,
// or a session whose user no longer exists, leaves the request anonymous
// rather than failing it.
func (s *Sessions) LoadPrincipal(users services.UserServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := s.Parse(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByID(claims.UserID)
			if errors.Is(err, services.ErrNotFound) {
				// Stale session: the user was removed after login.
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				log.Error().Err(err).Int64("user_id", claims.UserID).Msg("failed to resolve session principal")
				next.ServeHTTP(w, r)
				return
			}

			principal := models.Principal{ID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth gates a route on an authenticated session, redirecting
// anonymous requests to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin gates a route on the admin flag. Runs after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if !principal.IsAdmin {
			log.Warn().Str("username", principal.Username).Str("path", r.URL.Path).Msg("non-admin attempted a restricted operation")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
