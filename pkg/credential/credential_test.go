package credential_test

import (
	"strings"
	"testing"

	"github.com/joeydtaylor/servifier/pkg/credential"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func secret(s string) *string { return &s }

func TestDeriveTokenIsDeterministic(t *testing.T) {
	a := credential.DeriveToken("user", "1234")
	b := credential.DeriveToken("user", "1234")
	assert.Equal(t, a, b)
	assert.Len(t, a, 128, "sha512 hex")
	assert.Equal(t, strings.ToLower(a), a)
}

func TestDeriveTokenDependsOnBothInputs(t *testing.T) {
	seen := map[string]string{}
	for _, login := range []string{"user", "admin", "", "user2"} {
		for _, s := range []string{"1234", "12345", "", "salt"} {
			tok := credential.DeriveToken(login, s)
			key := login + "|" + s
			for prev, other := range seen {
				// login+secret concatenation collides by construction for these pairs
				if strings.ReplaceAll(prev, "|", "") == strings.ReplaceAll(key, "|", "") {
					continue
				}
				assert.NotEqual(t, other, tok, "%s vs %s", prev, key)
			}
			seen[key] = tok
		}
	}
}

func TestCheck(t *testing.T) {
	good := credential.DeriveToken("user", "1234")
	cases := []struct {
		name    string
		payload map[string]any
		secret  *string
		want    bool
	}{
		{"disabled", map[string]any{"a": 1}, nil, true},
		{"disabled ignores bad token", map[string]any{"login": "user", "token": "x"}, nil, true},
		{"valid", map[string]any{"login": "user", "token": good}, secret("1234"), true},
		{"wrong token", map[string]any{"login": "user", "token": "wrong"}, secret("1234"), false},
		{"wrong secret", map[string]any{"login": "user", "token": good}, secret("4321"), false},
		{"other login", map[string]any{"login": "admin", "token": good}, secret("1234"), false},
		{"missing login", map[string]any{"token": good}, secret("1234"), false},
		{"missing token", map[string]any{"login": "user"}, secret("1234"), false},
		{"non-string login", map[string]any{"login": int64(1), "token": good}, secret("1234"), false},
		{"non-string token", map[string]any{"login": "user", "token": int64(7)}, secret("1234"), false},
		{"nil payload", nil, secret("1234"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, credential.Check(tc.payload, tc.secret, zap.NewNop()))
		})
	}
}

func TestCheckLogsLookupFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ok := credential.Check(map[string]any{"login": "user"}, secret("1234"), zap.New(core))
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("malformed credentials").Len())

	ok = credential.Check(map[string]any{"login": "user", "token": "bad"}, secret("1234"), zap.New(core))
	assert.False(t, ok)
	assert.Equal(t, 1, logs.Len(), "a mismatch is not a lookup failure")
}

func TestStrip(t *testing.T) {
	p := map[string]any{"login": "u", "token": "t", "area": 1.0}
	credential.Strip(p)
	assert.Equal(t, map[string]any{"area": 1.0}, p)
}
