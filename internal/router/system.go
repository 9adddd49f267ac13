package router

import (
	"github.com/deppfellow/monitoria-backend/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes mounts the endpoints that sit outside the versioned
// API: health, the docs page and its static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", "static")

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
