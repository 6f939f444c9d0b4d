// Package credential derives and checks the login/token pair that guards a
// handle configured with a shared secret.
package credential

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Reserved payload keys. They are transport metadata and never reach a
// wrapped function.
const (
	LoginKey = "login"
	TokenKey = "token"
)

var (
	ErrMissingLogin = errors.New("credential: login missing")
	ErrMissingToken = errors.New("credential: token missing")
)

// DeriveToken returns the hex SHA-512 digest of login+secret.
func DeriveToken(login, secret string) string {
	sum := sha512.Sum512([]byte(login + secret))
	return hex.EncodeToString(sum[:])
}

// Check reports whether payload carries a valid token for its login.
// A nil secret disables authentication. Lookup failures are logged and
// reported as not authenticated.
func Check(payload map[string]any, secret *string, log *zap.Logger) bool {
	if secret == nil {
		return true
	}
	login, token, err := lookup(payload)
	if err != nil {
		if log != nil {
			log.Warn("malformed credentials", zap.Error(err))
		}
		return false
	}
	want := DeriveToken(login, *secret)
	return subtle.ConstantTimeCompare([]byte(token), []byte(want)) == 1
}

// Strip removes the reserved keys from payload.
func Strip(payload map[string]any) {
	delete(payload, LoginKey)
	delete(payload, TokenKey)
}

func lookup(payload map[string]any) (login, token string, err error) {
	rawLogin, ok := payload[LoginKey]
	if !ok {
		return "", "", ErrMissingLogin
	}
	rawToken, ok := payload[TokenKey]
	if !ok {
		return "", "", ErrMissingToken
	}
	if login, ok = rawLogin.(string); !ok {
		return "", "", fmt.Errorf("credential: login has type %T, want string", rawLogin)
	}
	if token, ok = rawToken.(string); !ok {
		return "", "", fmt.Errorf("credential: token has type %T, want string", rawToken)
	}
	return login, token, nil
}
