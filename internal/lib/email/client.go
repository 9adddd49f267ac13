// Package email renders the monitoria notification e-mails and sends them
// through Resend.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/deppfellow/monitoria-backend/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Client struct {
	client *resend.Client
	from   string
	logger *zerolog.Logger
}

// NewClient returns a Client, or one that only logs when no Resend API key is
// configured.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	c := &Client{
		from:   cfg.Integration.EmailFrom,
		logger: logger,
	}
	if cfg.Integration.ResendAPIKey != "" {
		c.client = resend.NewClient(cfg.Integration.ResendAPIKey)
	}
	return c
}

// Render executes the named template with data.
func Render(templateName Template, data map[string]string) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(templateName)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}
	return body.String(), nil
}

// SendEmail renders templateName with data and sends it to a single recipient.
func (c *Client) SendEmail(ctx context.Context, to, subject string, templateName Template, data map[string]string) error {
	html, err := Render(templateName, data)
	if err != nil {
		return err
	}

	if c.client == nil {
		c.logger.Warn().
			Str("to", to).
			Str("template", string(templateName)).
			Msg("resend api key not configured, e-mail not sent")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().
		Str("email_id", sent.Id).
		Str("template", string(templateName)).
		Msg("e-mail accepted by resend")

	return nil
}
