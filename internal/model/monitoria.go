package model

import (
	"encoding/json"
	"time"
)

// MonitoriaStatus is the lifecycle state of a monitoria.
type MonitoriaStatus string

const (
	StatusActive    MonitoriaStatus = "ativa"
	StatusInactive  MonitoriaStatus = "inativa"
	StatusCompleted MonitoriaStatus = "concluida"
)

// Valid reports whether s is one of the known statuses.
func (s MonitoriaStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusCompleted:
		return true
	}
	return false
}

// Monitoria is a tutoring session offer: a monitor (tutor) helping students of
// one discipline at a location, optionally with an availability schedule.
// Deleting a monitoria only flips its status to inativa.
type Monitoria struct {
	ID                  int64           `json:"id"`
	DisciplinaID        int64           `json:"disciplina_id"`
	MonitorID           int64           `json:"monitor_id"`
	Local               string          `json:"local"`
	HorariosDisponiveis json.RawMessage `json:"horarios_disponiveis"`
	Status              MonitoriaStatus `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type Disciplina struct {
	ID     int64  `json:"id"`
	Nome   string `json:"nome"`
	Codigo string `json:"codigo"`
}

// Monitor is the user acting as tutor. ExternalID is the Clerk user id.
type Monitor struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Nome       string `json:"nome"`
	Email      string `json:"email"`
	Ativo      bool   `json:"ativo"`
}

type CreateMonitoriaInput struct {
	DisciplinaID        int64
	MonitorID           int64
	Local               string
	HorariosDisponiveis json.RawMessage
}

// UpdateMonitoriaInput is a partial update; nil fields keep their value.
type UpdateMonitoriaInput struct {
	HorariosDisponiveis json.RawMessage
	Local               *string
	Status              *MonitoriaStatus
}

// IsEmpty reports whether the update changes nothing.
func (in UpdateMonitoriaInput) IsEmpty() bool {
	return in.HorariosDisponiveis == nil && in.Local == nil && in.Status == nil
}
