package auth

import (
	"crypto/rsa"
	"time"
)

type contextKey struct{ name string }

var userCtxKey = &contextKey{"user"}

// Options configures assertion verification. At most one of HS256Key and
// PublicKey is expected; with neither, assertions are ignored and only the
// dev bypass can produce an identity.
type Options struct {
	HS256Key   []byte
	PublicKey  *rsa.PublicKey
	Issuer     string
	Audience   string
	Leeway     time.Duration
	CookieName string
	AdminRole  string
	DevBypass  bool
}

type Middleware struct {
	adminRole string
	devBypass bool

	// Assertion verification
	assertCookieName string
	assertIssuer     string
	assertAudience   string
	assertLeeway     time.Duration
	hmacKey          []byte
	rsaKey           *rsa.PublicKey
}

// New builds a Middleware from explicit options.
func New(o Options) *Middleware {
	cookie := o.CookieName
	if cookie == "" {
		cookie = DefaultCookieName
	}
	return &Middleware{
		adminRole:        o.AdminRole,
		devBypass:        o.DevBypass,
		assertCookieName: cookie,
		assertIssuer:     o.Issuer,
		assertAudience:   o.Audience,
		assertLeeway:     o.Leeway,
		hmacKey:          o.HS256Key,
		rsaKey:           o.PublicKey,
	}
}

// Enabled reports whether a verification key is configured.
func (m *Middleware) Enabled() bool { return len(m.hmacKey) > 0 || m.rsaKey != nil }
