package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/servifier/pkg/bundlefx"
	"github.com/joeydtaylor/servifier/pkg/core"
	"github.com/joeydtaylor/servifier/pkg/manifest"
	"github.com/joeydtaylor/servifier/pkg/middleware/auth"
	"github.com/joeydtaylor/servifier/pkg/middleware/logger"
	"github.com/joeydtaylor/servifier/pkg/middleware/metrics"
	"github.com/joeydtaylor/servifier/pkg/servify"
	"github.com/joeydtaylor/servifier/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Options allow per-service env keys/defaults without code duplication.
type Options struct {
	Service         string         // for logs only
	ManifestEnv     string         // e.g. "SERVIFIER_MANIFEST"
	DefaultManifest string         // e.g. "manifest.toml"
	ListenAddrEnv   string         // e.g. "SERVER_LISTEN_ADDRESS"
	TLSCertEnv      string         // e.g. "SSL_SERVER_CERTIFICATE"
	TLSKeyEnv       string         // e.g. "SSL_SERVER_KEY"
	Funcs           *core.Registry // nil means core.Funcs
}

// DefaultOptions returns the servifierd defaults.
func DefaultOptions() Options {
	return Options{
		Service:         "servifier",
		ManifestEnv:     "SERVIFIER_MANIFEST",
		DefaultManifest: "manifest.toml",
		ListenAddrEnv:   "SERVER_LISTEN_ADDRESS",
		TLSCertEnv:      "SSL_SERVER_CERTIFICATE",
		TLSKeyEnv:       "SSL_SERVER_KEY",
	}
}

// ---- Manifest + handle table ----

func provideManifest(o Options, log *zap.Logger) (manifest.Config, error) {
	path := envOr(o.ManifestEnv, o.DefaultManifest)
	cfg, err := core.LoadConfig(path)
	if err != nil {
		return manifest.Config{}, err
	}
	log.Info("manifest loaded", zap.String("path", path), zap.Int("handles", len(cfg.Handles)))
	return cfg, nil
}

func provideTable(o Options, cfg manifest.Config, log *zap.Logger, obs *metrics.PipelineObserver) (*core.Table, error) {
	funcs := o.Funcs
	if funcs == nil {
		funcs = core.Funcs
	}
	t, err := core.BuildHandles(cfg, funcs, servify.WithLogger(log), servify.WithObserver(obs))
	if err != nil {
		return nil, err
	}
	for _, h := range t.Handlers() {
		log.Info("handle registered",
			zap.String("handle", h.Name()),
			zap.String("path", h.Path()),
			zap.Bool("authenticated", h.Authenticated()),
		)
	}
	return t, nil
}

// ---- Router ----

type routerDeps struct {
	fx.In

	Cfg   manifest.Config
	Table *core.Table

	AuthMW *auth.Middleware
	LogMW  *logger.Middleware

	Metrics http.Handler `name:"metrics"`

	R httpx.Router
}

func provideRouter(d routerDeps) http.Handler {
	return core.BuildRouter(d.Cfg, core.BuildDeps{
		Auth:    d.AuthMW,
		LogMW:   d.LogMW,
		Metrics: d.Metrics,
		Router:  d.R,
		Table:   d.Table,
	})
}

// ---- Server lifecycle ----

type serverDeps struct {
	fx.In
	Opts   Options
	Cfg    manifest.Config
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func newServer(d serverDeps) *http.Server {
	read, write := 15*time.Second, 30*time.Second
	if ms := d.Cfg.Server.ReadTimeoutMS; ms > 0 {
		read = time.Duration(ms) * time.Millisecond
	}
	if ms := d.Cfg.Server.WriteTimeoutMS; ms > 0 {
		write = time.Duration(ms) * time.Millisecond
	}
	return &http.Server{
		Addr:         envOr(d.Opts.ListenAddrEnv, d.Cfg.Server.Listen),
		Handler:      d.App,
		ReadTimeout:  read,
		WriteTimeout: write,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     zap.NewStdLog(d.Logger),
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
}

func registerHooks(lc fx.Lifecycle, d serverDeps) {
	srv := newServer(d)
	cert := os.Getenv(d.Opts.TLSCertEnv)
	key := os.Getenv(d.Opts.TLSKeyEnv)
	useTLS := fileExists(cert) && fileExists(key)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// Bind synchronously so a taken port fails startup.
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", ln.Addr().String()),
					zap.String("cert", cert),
				)
				go func() {
					if err := srv.ServeTLS(ln, cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			} else {
				d.Logger.Info("server starting (PLAINTEXT)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", ln.Addr().String()),
				)
				srv.TLSConfig = nil
				go func() {
					if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", d.Opts.Service))
			return srv.Shutdown(ctx)
		},
	})
}

// ---- Public Fx module ----

func Module(opts Options) fx.Option {
	return fx.Options(
		// Supply options to DI.
		fx.Supply(opts),

		// Operator guard, loggers, metrics
		bundlefx.Module,

		// Router implementation
		fx.Provide(httpx.NewChi),

		// Manifest is loaded once and shared.
		fx.Provide(provideManifest),
		fx.Provide(provideTable),

		// Router (named "app")
		fx.Provide(
			fx.Annotate(
				provideRouter,
				fx.ResultTags(`name:"app"`),
			),
		),

		// HTTP server lifecycle
		fx.Invoke(registerHooks),
	)
}

// ---- helpers ----

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
