package router

import (
	"net/http"

	"github.com/deppfellow/monitoria-backend/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerMonitoriaRoutes mounts the monitoria CRUD on g. Every route sits
// behind requireAuth. Validation rules travel with each handler's request
// type: create rules on POST, id and update rules on PATCH /:id, none on the
// others.
func registerMonitoriaRoutes(g *echo.Group, h *handler.MonitoriaHandler, requireAuth echo.MiddlewareFunc) {
	g.Use(requireAuth)

	g.GET("", handler.Handle(h.Handler, h.ListMonitorias, http.StatusOK))
	g.POST("", handler.Handle(h.Handler, h.CreateMonitoria, http.StatusCreated))
	g.GET("/:id", handler.Handle(h.Handler, h.GetMonitoria, http.StatusOK))
	g.PATCH("/:id", handler.Handle(h.Handler, h.UpdateMonitoria, http.StatusOK))
	g.DELETE("/:id", handler.HandleNoContent(h.Handler, h.DeleteMonitoria, http.StatusNoContent))
	g.PATCH("/:id/reativar", handler.Handle(h.Handler, h.ReactivateMonitoria, http.StatusOK))
}
