package email

import (
	"context"
	"fmt"
)

// MonitoriaEmail is what both monitoria notifications need to know.
type MonitoriaEmail struct {
	To             string
	MonitorName    string
	DisciplinaNome string
	Local          string
	MonitoriaID    int64
}

func (m MonitoriaEmail) data() map[string]string {
	return map[string]string{
		"MonitorName":    m.MonitorName,
		"DisciplinaNome": m.DisciplinaNome,
		"Local":          m.Local,
		"MonitoriaID":    fmt.Sprint(m.MonitoriaID),
	}
}

// SendMonitoriaAssignedEmail tells the monitor a monitoria was opened for them.
func (c *Client) SendMonitoriaAssignedEmail(ctx context.Context, m MonitoriaEmail) error {
	return c.SendEmail(
		ctx,
		m.To,
		fmt.Sprintf("Você é monitor(a) de %s", m.DisciplinaNome),
		TemplateMonitoriaAssigned,
		m.data(),
	)
}

// SendMonitoriaDeactivatedEmail tells the monitor their monitoria was closed.
func (c *Client) SendMonitoriaDeactivatedEmail(ctx context.Context, m MonitoriaEmail) error {
	return c.SendEmail(
		ctx,
		m.To,
		fmt.Sprintf("Monitoria de %s desativada", m.DisciplinaNome),
		TemplateMonitoriaDeactivated,
		m.data(),
	)
}
