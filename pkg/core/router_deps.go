package core

import (
	"net/http"

	"github.com/joeydtaylor/servifier/pkg/middleware/auth"
	"github.com/joeydtaylor/servifier/pkg/middleware/logger"
	httpx "github.com/joeydtaylor/servifier/pkg/transport/httpx"
)

type BuildDeps struct {
	Auth    *auth.Middleware
	LogMW   *logger.Middleware
	Metrics http.Handler
	Router  httpx.Router
	Table   *Table
}
