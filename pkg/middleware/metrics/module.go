package metrics

import "go.uber.org/fx"

var Module = fx.Options(
	fx.Provide(fx.Annotate(ProvideMetrics, fx.ResultTags(`name:"metrics"`))),
	fx.Provide(ProvidePipelineObserver),
)
