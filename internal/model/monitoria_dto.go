package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/deppfellow/monitoria-backend/internal/validation"
)

// ListMonitoriasRequest has no input; it exists so the list route goes through
// the same pipeline as the others.
type ListMonitoriasRequest struct{}

func (r *ListMonitoriasRequest) Validate() error { return nil }

// MonitoriaIDRequest carries the raw path id. Fetch, delete and reactivate do
// not validate it; the service answers 404 for anything it cannot find. Any
// request body is ignored.
type MonitoriaIDRequest struct {
	ID string `param:"id" json:"-"`
}

func (r *MonitoriaIDRequest) Validate() error { return nil }

func (r *MonitoriaIDRequest) PathOnly() {}

// ----------------------------------------------------------------------------

type CreateMonitoriaRequest struct {
	DisciplinaID        *int64          `json:"disciplina_id" validate:"required,min=1"`
	MonitorID           *int64          `json:"monitor_id" validate:"required,min=1"`
	Local               string          `json:"local" validate:"required"`
	HorariosDisponiveis json.RawMessage `json:"horarios_disponiveis" validate:"omitempty,jsonobject"`
}

// UnmarshalJSON accepts the ids as JSON numbers or as integer strings ("5"),
// the two forms clients of the API have always sent.
func (r *CreateMonitoriaRequest) UnmarshalJSON(data []byte) error {
	type plain CreateMonitoriaRequest
	aux := struct {
		*plain
		DisciplinaID json.RawMessage `json:"disciplina_id"`
		MonitorID    json.RawMessage `json:"monitor_id"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if r.DisciplinaID, err = lenientInt("disciplina_id", aux.DisciplinaID); err != nil {
		return err
	}
	if r.MonitorID, err = lenientInt("monitor_id", aux.MonitorID); err != nil {
		return err
	}
	return nil
}

func (r *CreateMonitoriaRequest) Normalize() {
	r.Local = strings.TrimSpace(r.Local)
	r.HorariosDisponiveis = dropNull(r.HorariosDisponiveis)
}

func (r *CreateMonitoriaRequest) Validate() error {
	return validation.Struct(r)
}

func (r *CreateMonitoriaRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"disciplina_id.required":          "O ID da disciplina é obrigatório.",
		"disciplina_id.min":               "O ID da disciplina deve ser um número inteiro.",
		"disciplina_id.type":              "O ID da disciplina deve ser um número inteiro.",
		"monitor_id.required":             "O ID do monitor é obrigatório.",
		"monitor_id.min":                  "O ID do monitor deve ser um número inteiro.",
		"monitor_id.type":                 "O ID do monitor deve ser um número inteiro.",
		"local.required":                  "O local é obrigatório.",
		"local.type":                      "O local deve ser um texto.",
		"horarios_disponiveis.jsonobject": "Os horários disponíveis devem estar em formato JSON.",
	}
}

// Input converts a validated request into the service input.
func (r *CreateMonitoriaRequest) Input() CreateMonitoriaInput {
	return CreateMonitoriaInput{
		DisciplinaID:        *r.DisciplinaID,
		MonitorID:           *r.MonitorID,
		Local:               r.Local,
		HorariosDisponiveis: r.HorariosDisponiveis,
	}
}

// ----------------------------------------------------------------------------

// UpdateMonitoriaRequest is a partial update. horarios_disponiveis may be an
// object or a string holding a JSON document.
type UpdateMonitoriaRequest struct {
	ID                  string          `param:"id" json:"-" validate:"posint"`
	HorariosDisponiveis json.RawMessage `json:"horarios_disponiveis" validate:"omitempty,jsondoc"`
	Local               *string         `json:"local" validate:"omitnil,min=1"`
	Status              *string         `json:"status" validate:"omitnil,oneof=ativa inativa concluida"`
}

func (r *UpdateMonitoriaRequest) Normalize() {
	if r.Local != nil {
		trimmed := strings.TrimSpace(*r.Local)
		r.Local = &trimmed
	}
	r.HorariosDisponiveis = dropNull(r.HorariosDisponiveis)
}

func (r *UpdateMonitoriaRequest) Validate() error {
	return validation.Struct(r)
}

func (r *UpdateMonitoriaRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"id.posint":                    "O ID da monitoria deve ser um número inteiro positivo.",
		"horarios_disponiveis.jsondoc": "Os horários disponíveis devem estar em formato JSON.",
		"local.type":                   "O local deve ser um texto.",
		"local.min":                    "O local não pode ser vazio.",
		"status.type":                  "O status deve ser 'ativa', 'inativa' ou 'concluida'.",
		"status.oneof":                 "O status deve ser 'ativa', 'inativa' ou 'concluida'.",
	}
}

// MonitoriaID returns the validated path id.
func (r *UpdateMonitoriaRequest) MonitoriaID() int64 {
	id, _ := strconv.ParseInt(r.ID, 10, 64)
	return id
}

// Input converts a validated request into the service input.
func (r *UpdateMonitoriaRequest) Input() UpdateMonitoriaInput {
	in := UpdateMonitoriaInput{Local: r.Local}
	if r.HorariosDisponiveis != nil {
		in.HorariosDisponiveis, _ = validation.DecodeJSONDocument(r.HorariosDisponiveis)
	}
	if r.Status != nil {
		status := MonitoriaStatus(*r.Status)
		in.Status = &status
	}
	return in
}

// lenientInt decodes an integer sent as a JSON number or an integer string.
// Absent and null values give nil; anything else is a type error on field.
func lenientInt(field string, raw json.RawMessage) (*int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	text := string(raw)
	kind := "number"
	switch raw[0] {
	case '"':
		kind = "string"
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
	case '{':
		kind = "object"
	case '[':
		kind = "array"
	case 't', 'f':
		kind = "bool"
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, &json.UnmarshalTypeError{
			Value: kind,
			Type:  reflect.TypeOf(int64(0)),
			Field: field,
		}
	}
	return &n, nil
}

// dropNull treats an explicit JSON null as an absent field.
func dropNull(raw json.RawMessage) json.RawMessage {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return raw
}
