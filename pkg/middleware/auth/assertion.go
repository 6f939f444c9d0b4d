package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

type assertionClaims struct {
	jwt.RegisteredClaims
	UID   string   `json:"uid"`
	Roles []string `json:"roles"`
	Role  string   `json:"role"`
}

func (m *Middleware) validMethods() []string {
	if m.rsaKey != nil {
		return []string{"RS256"}
	}
	return []string{"HS256"}
}

func (m *Middleware) key(*jwt.Token) (any, error) {
	if m.rsaKey != nil {
		return m.rsaKey, nil
	}
	return m.hmacKey, nil
}

func (m *Middleware) validateAssertion(raw string) (User, error) {
	if !m.Enabled() {
		return User{}, errors.New("assertion key not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(m.validMethods()),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.assertLeeway),
	}
	if m.assertIssuer != "" {
		opts = append(opts, jwt.WithIssuer(m.assertIssuer))
	}
	if m.assertAudience != "" {
		opts = append(opts, jwt.WithAudience(m.assertAudience))
	}

	var claims assertionClaims
	tok, err := jwt.NewParser(opts...).ParseWithClaims(raw, &claims, m.key)
	if err != nil || !tok.Valid {
		return User{}, errors.New("invalid assertion")
	}

	username := firstNonEmpty(claims.UID, claims.Subject)
	if username == "" {
		return User{}, errors.New("missing uid")
	}

	return User{
		Username:             username,
		AuthenticationSource: AuthenticationSource{Provider: "assert"},
		Role:                 Role{Name: firstNonEmpty(claims.Role, first(claims.Roles...))},
	}, nil
}
