package email

// Template names a file under templates/, without the .html extension.
type Template string

const (
	TemplateMonitoriaAssigned    Template = "monitoria_assigned"
	TemplateMonitoriaDeactivated Template = "monitoria_deactivated"
)
