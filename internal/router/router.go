// Package router builds the Echo instance: global middleware, the error
// handler, system routes and the versioned monitoria API.
package router

import (
	"github.com/deppfellow/monitoria-backend/internal/handler"
	"github.com/deppfellow/monitoria-backend/internal/middleware"
	"github.com/deppfellow/monitoria-backend/internal/server"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func NewRouter(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = m.Global.GlobalErrorHandler

	router.Pre(echomiddleware.RemoveTrailingSlash())

	router.Use(
		m.RateLimit.Limit(),
		m.Global.CORS(),
		m.Global.Secure(),
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		m.Global.RequestLogger(),
		m.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	registerMonitoriaRoutes(v1.Group("/monitorias"), h.Monitoria, m.Auth.RequireAuth)

	return router
}
