package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/joeydtaylor/servifier/pkg/servify"
	"github.com/prometheus/client_golang/prometheus"
)

// PipelineObserver records one sample per servified request.
type PipelineObserver struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ servify.Observer = (*PipelineObserver)(nil)

// NewPipelineObserver registers the pipeline collectors on reg. Collectors
// already registered by an earlier call are shared.
func NewPipelineObserver(reg prometheus.Registerer) (*PipelineObserver, error) {
	requests, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "servifier_pipeline_requests_total",
			Help: "servified requests by handle, last stage reached and status",
		},
		[]string{"handle", "stage", "code"},
	))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "servifier_pipeline_duration_seconds",
			Help:    "time spent in the servify pipeline",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handle"},
	))
	if err != nil {
		return nil, err
	}
	return &PipelineObserver{requests: requests, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	var zero C
	return zero, err
}

func (o *PipelineObserver) Observe(handle string, stage servify.Stage, status int, elapsed time.Duration) {
	o.requests.WithLabelValues(handle, stage.String(), strconv.Itoa(status)).Inc()
	o.duration.WithLabelValues(handle).Observe(elapsed.Seconds())
}
