package handler

import (
	"context"

	"github.com/deppfellow/monitoria-backend/internal/middleware"
	"github.com/deppfellow/monitoria-backend/internal/model"
	"github.com/deppfellow/monitoria-backend/internal/server"
	"github.com/labstack/echo/v4"
)

// MonitoriaService is what the monitoria endpoints call.
type MonitoriaService interface {
	List(ctx context.Context) ([]model.Monitoria, error)
	Create(ctx context.Context, actor model.Actor, in model.CreateMonitoriaInput) (*model.Monitoria, error)
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.Monitoria, error)
	Update(ctx context.Context, actor model.Actor, id int64, in model.UpdateMonitoriaInput) (*model.Monitoria, error)
	Delete(ctx context.Context, actor model.Actor, id string) (*model.Monitoria, error)
	Reactivate(ctx context.Context, actor model.Actor, id string) (*model.Monitoria, error)
}

type MonitoriaHandler struct {
	Handler
	service MonitoriaService
}

func NewMonitoriaHandler(s *server.Server, svc MonitoriaService) *MonitoriaHandler {
	return &MonitoriaHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

func actorFrom(c echo.Context) model.Actor {
	return model.Actor{
		UserID: middleware.GetUserID(c),
		Role:   middleware.GetUserRole(c),
	}
}

// ListMonitorias answers 200 with every active monitoria.
func (h *MonitoriaHandler) ListMonitorias(c echo.Context, _ *model.ListMonitoriasRequest) ([]model.Monitoria, error) {
	return h.service.List(c.Request().Context())
}

// CreateMonitoria answers 201 with the monitoria exactly as the service
// returned it.
func (h *MonitoriaHandler) CreateMonitoria(c echo.Context, req *model.CreateMonitoriaRequest) (*model.Monitoria, error) {
	return h.service.Create(c.Request().Context(), actorFrom(c), req.Input())
}

func (h *MonitoriaHandler) GetMonitoria(c echo.Context, req *model.MonitoriaIDRequest) (*model.Monitoria, error) {
	return h.service.GetByID(c.Request().Context(), actorFrom(c), req.ID)
}

func (h *MonitoriaHandler) UpdateMonitoria(c echo.Context, req *model.UpdateMonitoriaRequest) (*model.Monitoria, error) {
	return h.service.Update(c.Request().Context(), actorFrom(c), req.MonitoriaID(), req.Input())
}

// DeleteMonitoria soft-deletes and answers 204; the deactivated record is
// not sent back.
func (h *MonitoriaHandler) DeleteMonitoria(c echo.Context, req *model.MonitoriaIDRequest) error {
	_, err := h.service.Delete(c.Request().Context(), actorFrom(c), req.ID)
	return err
}

func (h *MonitoriaHandler) ReactivateMonitoria(c echo.Context, req *model.MonitoriaIDRequest) (*model.Monitoria, error) {
	return h.service.Reactivate(c.Request().Context(), actorFrom(c), req.ID)
}
