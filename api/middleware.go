/*
middleware.go - Principal extraction and boundary policies

PURPOSE:
  Translates the host session (a signed bearer token, via header or
  cookie) into an auth.Principal on the request context. Missing or
  invalid tokens yield an unauthenticated principal; the per-route gates
  decide what that principal may do. Authenticated responses get no-cache
  headers so a logged-in page is never served from a shared cache.
*/
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/warp/tripboard/auth"
)

type contextKey string

const contextKeyPrincipal contextKey = "principal"

// SessionCookie carries the session token for page navigation, where
// setting an Authorization header is not practical.
const SessionCookie = "tripboard_session"

// Authenticate resolves the request's principal and stores it on the
// context. It never rejects by itself.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := auth.Principal{}

		if token := bearerToken(r); token != "" {
			if p, err := h.Auth.VerifyToken(token); err == nil {
				principal = p
			}
		}

		if principal.Authenticated() {
			w.Header().Set("Cache-Control", "no-cache, must-revalidate, max-age=0")
		}

		ctx := context.WithValue(r.Context(), contextKeyPrincipal, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the session token from the Authorization header,
// falling back to the session cookie.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// principalFrom returns the principal stored by Authenticate.
func principalFrom(r *http.Request) auth.Principal {
	p, _ := r.Context().Value(contextKeyPrincipal).(auth.Principal)
	return p
}
