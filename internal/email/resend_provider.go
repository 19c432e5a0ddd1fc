package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendProvider отправляет письма через API Resend
type ResendProvider struct {
	config    Config
	templates *TemplateManager
	client    *resend.Client
}

func NewResendProvider(cfg Config, templates *TemplateManager) *ResendProvider {
	var client *resend.Client
	if cfg.ResendAPIKey != "" {
		client = resend.NewClient(cfg.ResendAPIKey)
	}
	return &ResendProvider{
		config:    cfg,
		templates: templates,
		client:    client,
	}
}

func (p *ResendProvider) Send(ctx context.Context, email *Email) error {
	if p.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	from := email.From
	if from == "" {
		from = p.config.FromEmail
	}
	if p.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", p.config.FromName, from)
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Text:    email.Body,
		Html:    email.HTMLBody,
	}

	if _, err := p.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email via resend: %w", err)
	}
	return nil
}

func (p *ResendProvider) SendConfirmation(ctx context.Context, to, username, link string) error {
	msg, err := buildConfirmation(p.templates, p.config, to, username, link)
	if err != nil {
		return err
	}
	return p.Send(ctx, msg)
}

func (p *ResendProvider) Validate() error {
	if p.config.ResendAPIKey == "" {
		return fmt.Errorf("resend api key is required")
	}
	if p.config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

func (p *ResendProvider) Close() error {
	return nil
}
