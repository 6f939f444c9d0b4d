package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	manifest "github.com/joeydtaylor/servifier/pkg/manifest"
	"github.com/joeydtaylor/servifier/pkg/middleware/auth"
	"github.com/joeydtaylor/servifier/pkg/middleware/logger"
	"github.com/joeydtaylor/servifier/pkg/servify"
	httpx "github.com/joeydtaylor/servifier/pkg/transport/httpx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testManifest = `
[server]
max_body_bytes = 512

[operator]
require_auth = true
roles = ["ops"]

[[handle]]
path = "/evaluate"
function = "apartment.evaluate"
auth_secret = "1234"
log_body = true

  [[handle.field]]
  name = "area"
  type = "float"

  [[handle.field]]
  name = "distance"
  type = "integer"

[[handle]]
path = "/explode"
function = "always.fails"
`

func price(area float64, distance int64) float64 {
	return 200000*area - 1000*float64(distance)
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.Register("apartment.evaluate", servify.MustFromFunc(price, "area", "distance")))
	require.NoError(t, reg.Register("always.fails", servify.Function{
		Params: []servify.Param{{Name: "x", Optional: true}},
		Call: func(context.Context, []any) (any, error) {
			return nil, errors.New("database password is hunter2")
		},
	}))
	return reg
}

func testConfig(t *testing.T) manifest.Config {
	t.Helper()
	cfg, err := DecodeConfig(".toml", []byte(testManifest))
	require.NoError(t, err)
	return cfg
}

// testServer wires the full router with a dev-bypass operator guard.
func testServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig(t)
	table, err := BuildHandles(cfg, testRegistry(t), servify.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	return BuildRouter(cfg, BuildDeps{
		Auth:    auth.New(auth.Options{DevBypass: true, AdminRole: "admin"}),
		LogMW:   logger.New(zap.NewNop()),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
		Router:  httpx.NewChi(),
		Table:   table,
	})
}

type reply struct {
	Result any    `json:"result"`
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func do(t *testing.T, h http.Handler, method, path, body string, hdr map[string]string) (*httptest.ResponseRecorder, reply) {
	t.Helper()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		r.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	var rep reply
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep), rec.Body.String())
	}
	return rec, rep
}
