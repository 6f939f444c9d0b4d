package auth

import (
	"net/http"
	"strings"
)

const (
	DevUserHeader = "X-Dev-User"
	DevRoleHeader = "X-Dev-Role"
)

// devUserFromHeaders injects an identity when AUTH_DEV_BYPASS=true.
func devUserFromHeaders(r *http.Request) User {
	name := strings.TrimSpace(r.Header.Get(DevUserHeader))
	if name == "" {
		return User{}
	}
	return User{
		Username:             name,
		AuthenticationSource: AuthenticationSource{Provider: "dev"},
		Role:                 Role{Name: strings.TrimSpace(r.Header.Get(DevRoleHeader))},
	}
}
