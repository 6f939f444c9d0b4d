package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hsKey = []byte("operator-test-key")

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func claims(sub, role string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iss":  "ops-issuer",
		"aud":  "servifier",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Minute).Unix(),
	}
}

// identity runs r through m and returns the user seen downstream.
func identity(m *Middleware, r *http.Request) (User, bool) {
	var (
		got  User
		auth bool
	)
	h := m.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = m.GetUser(r.Context())
		auth = m.IsAuthenticated(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), r)
	return got, auth
}

func TestBearerHS256(t *testing.T) {
	m := New(Options{HS256Key: hsKey, Issuer: "ops-issuer", Audience: "servifier"})
	r := httptest.NewRequest(http.MethodGet, "/handles", nil)
	r.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, hsKey, claims("alice", "ops")))

	u, ok := identity(m, r)
	require.True(t, ok)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "ops", u.Role.Name)
	assert.Equal(t, "assert", u.AuthenticationSource.Provider)
}

func TestCookieAssertion(t *testing.T) {
	m := New(Options{HS256Key: hsKey, CookieName: "op"})
	c := claims("bob", "")
	c["roles"] = []string{"viewer", "ops"}
	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.AddCookie(&http.Cookie{Name: "op", Value: sign(t, jwt.SigningMethodHS256, hsKey, c)})

	u, ok := identity(m, r)
	require.True(t, ok)
	assert.Equal(t, "viewer", u.Role.Name)
}

func TestRejectedAssertions(t *testing.T) {
	m := New(Options{HS256Key: hsKey, Issuer: "ops-issuer", Audience: "servifier"})

	expired := claims("alice", "ops")
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	wrongIss := claims("alice", "ops")
	wrongIss["iss"] = "elsewhere"
	wrongAud := claims("alice", "ops")
	wrongAud["aud"] = "other"
	noSub := claims("", "ops")

	cases := map[string]string{
		"bad key":   sign(t, jwt.SigningMethodHS256, []byte("nope"), claims("alice", "ops")),
		"expired":   sign(t, jwt.SigningMethodHS256, hsKey, expired),
		"issuer":    sign(t, jwt.SigningMethodHS256, hsKey, wrongIss),
		"audience":  sign(t, jwt.SigningMethodHS256, hsKey, wrongAud),
		"no sub":    sign(t, jwt.SigningMethodHS256, hsKey, noSub),
		"alg none":  sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claims("alice", "ops")),
		"malformed": "not.a.jwt",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/handles", nil)
			r.Header.Set("Authorization", "Bearer "+tok)
			_, ok := identity(m, r)
			assert.False(t, ok)
		})
	}
}

func TestNoKeyIgnoresAssertions(t *testing.T) {
	m := New(Options{})
	assert.False(t, m.Enabled())
	r := httptest.NewRequest(http.MethodGet, "/handles", nil)
	r.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, hsKey, claims("alice", "ops")))
	_, ok := identity(m, r)
	assert.False(t, ok)
}

func TestDevBypass(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/handles", nil)
	r.Header.Set("X-Dev-User", "dev")
	r.Header.Set("X-Dev-Role", "admin")

	_, ok := identity(New(Options{}), r)
	assert.False(t, ok)

	m := New(Options{DevBypass: true, AdminRole: "admin"})
	var admin, ops bool
	h := m.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		admin = m.IsAdmin(r.Context())
		ops = m.IsRole(r.Context(), Role{Name: "ops"})
	}))
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.True(t, admin)
	assert.True(t, ops)
}

func TestProvideAuthenticationRS256(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "assert.pem")
	require.NoError(t, os.WriteFile(file, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600))

	t.Setenv("ASSERTION_PUBLIC_KEY_FILE", file)
	t.Setenv("ASSERTION_HS256_KEY", string(hsKey))
	t.Setenv("ASSERTION_ISSUER", "ops-issuer")
	t.Setenv("ASSERTION_AUDIENCE", "servifier")
	m, err := ProvideAuthentication()
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/handles", nil)
	r.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodRS256, priv, claims("carol", "ops")))
	u, ok := identity(m, r)
	require.True(t, ok)
	assert.Equal(t, "carol", u.Username)

	// the RSA key takes precedence; HS256 tokens are refused
	r = httptest.NewRequest(http.MethodGet, "/handles", nil)
	r.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, hsKey, claims("carol", "ops")))
	_, ok = identity(m, r)
	assert.False(t, ok)
}

func TestProvideAuthenticationBadKeyFile(t *testing.T) {
	t.Setenv("ASSERTION_PUBLIC_KEY_FILE", filepath.Join(t.TempDir(), "missing.pem"))
	_, err := ProvideAuthentication()
	assert.Error(t, err)
}
