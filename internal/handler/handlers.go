package handler

import (
	"github.com/deppfellow/monitoria-backend/internal/server"
	"github.com/deppfellow/monitoria-backend/internal/service"
)

type Handlers struct {
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
	Monitoria *MonitoriaHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		OpenAPI:   NewOpenAPIHandler(s),
		Monitoria: NewMonitoriaHandler(s, services.Monitoria),
	}
}
