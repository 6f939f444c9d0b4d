package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewPromHttpHandler returns the /metrics handler.
func NewPromHttpHandler() http.Handler { return promhttp.Handler() }

// ProvideMetrics is the Fx provider for the /metrics handler.
func ProvideMetrics() http.Handler { return NewPromHttpHandler() }

// ProvidePipelineObserver registers the pipeline collectors on the default registry.
func ProvidePipelineObserver() (*PipelineObserver, error) {
	return NewPipelineObserver(prometheus.DefaultRegisterer)
}
