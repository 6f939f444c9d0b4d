package servify_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joeydtaylor/servifier/pkg/credential"
	"github.com/joeydtaylor/servifier/pkg/servify"
	"github.com/joeydtaylor/servifier/pkg/validation"
	"github.com/stretchr/testify/require"
)

// F marshals like a JSON float literal even when integral (30.0, not 30).
type F float64

func (f F) MarshalJSON() ([]byte, error) {
	s := strconv.FormatFloat(float64(f), 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return []byte(s), nil
}

func price(area float64, distance int64) float64 {
	return 200000*area - 1000*float64(distance)
}

func apartmentSchema() *validation.Schema {
	return validation.MustSchema(
		validation.Named{Name: "area", Field: validation.Float(true)},
		validation.Named{Name: "distance", Field: validation.Integer(true)},
	)
}

func evaluateHandle() servify.Handle {
	return servify.Handle{
		Path:       "/evaluate",
		Func:       servify.MustFromFunc(price, "area", "distance"),
		Validator:  apartmentSchema(),
		AuthSecret: servify.Secret("1234"),
	}
}

func validRequest() map[string]any {
	return map[string]any{
		"login":    "user",
		"token":    credential.DeriveToken("user", "1234"),
		"area":     F(30.0),
		"distance": 300,
	}
}

func failing(context.Context, int64, int64) (any, error) {
	return nil, errors.New("secret detail 42")
}

type reply struct {
	Result any    `json:"result"`
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func decode(t *testing.T, out []byte) reply {
	t.Helper()
	var r reply
	require.NoError(t, json.Unmarshal(out, &r))
	return r
}

type observation struct {
	handle string
	stage  servify.Stage
	status int
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) Observe(handle string, stage servify.Stage, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{handle, stage, status})
}

func (o *recordingObserver) last() observation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.seen[len(o.seen)-1]
}
