package email

import (
	"context"
	"testing"

	"github.com/deppfellow/monitoria-backend/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmails struct {
	resend.EmailsSvc
	sent []*resend.SendEmailRequest
}

func (f *fakeEmails) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "email_123"}, nil
}

func TestRenderPreviewData(t *testing.T) {
	for name, data := range PreviewData {
		t.Run(string(name), func(t *testing.T) {
			html, err := Render(name, data)
			require.NoError(t, err)
			assert.Contains(t, html, "Ana Souza")
			assert.Contains(t, html, "Cálculo I")
			assert.Contains(t, html, "#42")
		})
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("missing", nil)
	assert.Error(t, err)
}

func TestSendMonitoriaAssignedEmail(t *testing.T) {
	logger := zerolog.Nop()
	fake := &fakeEmails{}
	c := &Client{
		client: &resend.Client{Emails: fake},
		from:   "Monitorias <monitorias@example.com>",
		logger: &logger,
	}

	err := c.SendMonitoriaAssignedEmail(context.Background(), MonitoriaEmail{
		To:             "ana@example.com",
		MonitorName:    "Ana",
		DisciplinaNome: "Física II",
		Local:          "Lab 3",
		MonitoriaID:    7,
	})
	require.NoError(t, err)

	require.Len(t, fake.sent, 1)
	assert.Equal(t, []string{"ana@example.com"}, fake.sent[0].To)
	assert.Equal(t, "Monitorias <monitorias@example.com>", fake.sent[0].From)
	assert.Equal(t, "Você é monitor(a) de Física II", fake.sent[0].Subject)
	assert.Contains(t, fake.sent[0].Html, "Lab 3")
}

func TestSendEmailWithoutAPIKeyIsNoop(t *testing.T) {
	logger := zerolog.Nop()
	c := NewClient(&config.Config{}, &logger)

	err := c.SendMonitoriaDeactivatedEmail(context.Background(), MonitoriaEmail{To: "ana@example.com"})
	assert.NoError(t, err)
}
