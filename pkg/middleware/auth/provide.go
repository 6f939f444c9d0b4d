package auth

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultCookieName = "assert"

// ProvideAuthentication wires defaults and env config. An unreadable
// ASSERTION_PUBLIC_KEY_FILE is a startup error.
func ProvideAuthentication() (*Middleware, error) {
	leeway := 60 * time.Second
	if v := strings.TrimSpace(os.Getenv("ASSERTION_LEEWAY_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			leeway = time.Duration(n) * time.Second
		}
	}

	o := Options{
		Issuer:     strings.TrimSpace(os.Getenv("ASSERTION_ISSUER")),
		Audience:   strings.TrimSpace(os.Getenv("ASSERTION_AUDIENCE")),
		Leeway:     leeway,
		CookieName: strings.TrimSpace(os.Getenv("ASSERTION_COOKIE_NAME")),
		AdminRole:  os.Getenv("ADMIN_ROLE_NAME"),
		DevBypass:  os.Getenv("AUTH_DEV_BYPASS") == "true",
	}

	if f := strings.TrimSpace(os.Getenv("ASSERTION_PUBLIC_KEY_FILE")); f != "" {
		pem, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read assertion key: %w", err)
		}
		pub, err := jwt.ParseRSAPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("parse assertion key: %w", err)
		}
		o.PublicKey = pub
	} else if k := os.Getenv("ASSERTION_HS256_KEY"); k != "" {
		o.HS256Key = []byte(k)
	}

	return New(o), nil
}
