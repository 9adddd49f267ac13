package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskMonitoriaAssigned    = "email:monitoria_assigned"
	TaskMonitoriaDeactivated = "email:monitoria_deactivated"
)

// MonitoriaEmailPayload is the JSON stored in Redis for both monitoria
// notification tasks.
type MonitoriaEmailPayload struct {
	MonitoriaID    int64  `json:"monitoria_id"`
	To             string `json:"to"`
	MonitorName    string `json:"monitor_name"`
	DisciplinaNome string `json:"disciplina_nome"`
	Local          string `json:"local"`
}

func NewMonitoriaAssignedTask(p MonitoriaEmailPayload) (*asynq.Task, error) {
	return newEmailTask(TaskMonitoriaAssigned, p)
}

func NewMonitoriaDeactivatedTask(p MonitoriaEmailPayload) (*asynq.Task, error) {
	return newEmailTask(TaskMonitoriaDeactivated, p)
}

func newEmailTask(typename string, p MonitoriaEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		typename,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
