package main

import (
	"context"

	"github.com/joeydtaylor/servifier/pkg/core"
	"github.com/joeydtaylor/servifier/pkg/servify"
)

// evaluate prices an apartment from its area (m²) and distance to the
// center (m).
func evaluate(_ context.Context, area float64, distance int64) (float64, error) {
	return 200000*area - 1000*float64(distance), nil
}

func init() {
	core.MustRegisterFunc("apartment.evaluate", servify.Bind2("area", "distance", evaluate))
}
