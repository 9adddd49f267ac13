package email

// PreviewData holds sample values for every template, keyed by template
// name, for rendering previews and template tests.
var PreviewData = map[Template]map[string]string{
	TemplateMonitoriaAssigned: {
		"MonitorName":    "Ana Souza",
		"DisciplinaNome": "Cálculo I",
		"Local":          "Sala B-204",
		"MonitoriaID":    "42",
	},
	TemplateMonitoriaDeactivated: {
		"MonitorName":    "Ana Souza",
		"DisciplinaNome": "Cálculo I",
		"Local":          "Sala B-204",
		"MonitoriaID":    "42",
	},
}
