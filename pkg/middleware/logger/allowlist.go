package logger

import (
	"net/http"
	"strings"

	"github.com/joeydtaylor/servifier/pkg/codec"
	"github.com/joeydtaylor/servifier/pkg/credential"
)

const (
	maxLoggedBody = 1 << 16 // 64 KiB
	redacted      = "[REDACTED]"
)

// AddBodyLogPaths extends the set of paths whose request bodies are logged.
func (m *Middleware) AddBodyLogPaths(paths ...string) {
	m.mu.Lock()
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			m.bodyPaths[p] = struct{}{}
		}
	}
	m.mu.Unlock()
}

// wantsBody is the cheap pre-read check: POST, JSON and allowlisted.
func (m *Middleware) wantsBody(r *http.Request) bool {
	if r.Method != http.MethodPost || r.Body == nil {
		return false
	}
	if !codec.IsJSON(r.Header.Get("Content-Type")) {
		return false
	}
	m.mu.RLock()
	_, ok := m.bodyPaths[r.URL.Path]
	m.mu.RUnlock()
	return ok
}

// redactBody returns body with credentials masked, or nil when the body is
// too large or not a JSON object.
func redactBody(body []byte) []byte {
	if len(body) == 0 || len(body) > maxLoggedBody {
		return nil
	}
	obj, err := codec.DecodeObject(body)
	if err != nil || obj == nil {
		return nil
	}
	for _, k := range []string{credential.LoginKey, credential.TokenKey} {
		if _, ok := obj[k]; ok {
			obj[k] = redacted
		}
	}
	out, err := codec.JSONStrict.Marshal(obj)
	if err != nil {
		return nil
	}
	return out
}
