package auth

import (
	"context"
	"net/http"
	"strings"
)

// Middleware resolves the caller identity, if any, and stores it on the
// request context. It never rejects a request; guards decide that.
func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev bypass for local testing (NEVER enable in prod)
			if m.devBypass {
				if u := devUserFromHeaders(r); !u.Anonymous() {
					next.ServeHTTP(w, withUser(r, u))
					return
				}
			}

			if raw := m.rawAssertion(r); raw != "" && m.Enabled() {
				if u, err := m.validateAssertion(raw); err == nil {
					next.ServeHTTP(w, withUser(r, u))
					return
				}
				// fall through unauthenticated
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rawAssertion prefers the bearer header over the cookie.
func (m *Middleware) rawAssertion(r *http.Request) string {
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if c, err := r.Cookie(m.assertCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

func withUser(r *http.Request, u User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userCtxKey, u))
}
