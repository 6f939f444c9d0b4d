// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/servifier/pkg/middleware/auth"
	"github.com/joeydtaylor/servifier/pkg/middleware/logger"
	"github.com/joeydtaylor/servifier/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provides the operator guard, loggers and metrics to fx.
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)
