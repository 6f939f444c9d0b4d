package main

import (
	"github.com/joeydtaylor/servifier/pkg/serverfx"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		serverfx.Module(serverfx.DefaultOptions()),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger { return &fxevent.ZapLogger{Logger: l} }),
	).Run()
}
