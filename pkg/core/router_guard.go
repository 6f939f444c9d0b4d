package core

import (
	"net/http"

	"github.com/joeydtaylor/servifier/pkg/envelope"
	manifest "github.com/joeydtaylor/servifier/pkg/manifest"
	"github.com/joeydtaylor/servifier/pkg/middleware/auth"
)

func unauthorized(w http.ResponseWriter) {
	envelope.Write(w, envelope.Error("operator identity required", http.StatusUnauthorized))
}

func forbidden(w http.ResponseWriter) {
	envelope.Write(w, envelope.Error("operator not permitted", http.StatusForbidden))
}

// withGuard protects operator endpoints. Handle routes never pass through it.
func withGuard(next http.HandlerFunc, a *auth.Middleware, g manifest.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// If no auth middleware wired, only allow when the guard is open
		if a == nil {
			if g.RequireAuth || len(g.Users) > 0 || len(g.Roles) > 0 {
				unauthorized(w)
				return
			}
			next(w, r)
			return
		}

		if g.RequireAuth && !a.IsAuthenticated(r.Context()) {
			unauthorized(w)
			return
		}
		if len(g.Users) > 0 {
			if !a.IsAuthenticated(r.Context()) {
				unauthorized(w)
				return
			}
			for _, x := range g.Users {
				if a.IsUser(r.Context(), x) {
					next(w, r)
					return
				}
			}
			forbidden(w)
			return
		}
		if len(g.Roles) > 0 {
			if !a.IsAuthenticated(r.Context()) {
				unauthorized(w)
				return
			}
			for _, x := range g.Roles {
				if a.IsRole(r.Context(), auth.Role{Name: x}) {
					next(w, r)
					return
				}
			}
			forbidden(w)
			return
		}
		next(w, r)
	}
}
