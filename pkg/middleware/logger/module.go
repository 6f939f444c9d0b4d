package logger

import "go.uber.org/fx"

// Module provides the system logger and the access-log middleware.
var Module = fx.Options(
	fx.Provide(ProvideLogger, ProvideLoggerMiddleware),
)
