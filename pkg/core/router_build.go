package core

import (
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/servifier/pkg/envelope"
	manifest "github.com/joeydtaylor/servifier/pkg/manifest"
	hmetrics "github.com/joeydtaylor/servifier/pkg/middleware/metrics"
)

const (
	MsgNotFound         = "check handle address"
	MsgMethodNotAllowed = "use POST"
)

func BuildRouter(cfg manifest.Config, d BuildDeps) http.Handler {
	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))

	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(d.Auth))
		}
		// metrics collector that references auth state without copying it
		r.Use(hmetrics.Collect(d.Auth))
	} else if d.LogMW != nil {
		r.Use(d.LogMW.Middleware(nil))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		envelope.Write(w, envelope.Error(MsgNotFound, http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", http.MethodPost)
		envelope.Write(w, envelope.Error(MsgMethodNotAllowed, http.StatusMethodNotAllowed))
	})

	if d.Metrics != nil {
		r.Get("/metrics", withGuard(d.Metrics.ServeHTTP, d.Auth, cfg.Operator))
	}
	if d.Table == nil {
		return r.Mux()
	}
	r.Get("/handles", withGuard(listHandles(d.Table), d.Auth, cfg.Operator))

	limit := cfg.Server.MaxBodyBytes
	if limit <= 0 {
		limit = manifest.DefaultMaxBodyBytes
	}
	logBody := map[string]bool{}
	for _, hc := range cfg.Handles {
		logBody[hc.Path] = hc.LogBody
	}
	for _, h := range d.Table.Handlers() {
		if logBody[h.Path()] && d.LogMW != nil {
			d.LogMW.AddBodyLogPaths(h.Path())
		}
		r.Post(h.Path(), withBodyLimit(h, limit))
	}
	return r.Mux()
}

func withBodyLimit(next http.Handler, n int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		next.ServeHTTP(w, r)
	}
}
