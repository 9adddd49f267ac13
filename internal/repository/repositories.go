package repository

import (
	"github.com/deppfellow/monitoria-backend/internal/server"
)

type Repositories struct {
	Monitoria *MonitoriaRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Monitoria: NewMonitoriaRepository(s),
	}
}
