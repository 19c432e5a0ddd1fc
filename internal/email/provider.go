package email

import (
	"context"
	"fmt"
)

// Email представляет структуру email сообщения
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]interface{}

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет email сообщение
	Send(ctx context.Context, email *Email) error

	// SendConfirmation отправляет письмо со ссылкой подтверждения аккаунта
	SendConfirmation(ctx context.Context, to, username, link string) error

	// Validate проверяет конфигурацию провайдера
	Validate() error

	// Close закрывает соединение с провайдером
	Close() error
}

// Config содержит настройки всех провайдеров
type Config struct {
	Provider     string // log, smtp, resend
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	ResendAPIKey string
	FromEmail    string
	FromName     string
	AppName      string
}

// NewProvider создает провайдер по cfg.Provider и проверяет его конфигурацию
func NewProvider(cfg Config) (Provider, error) {
	templates, err := NewTemplateManager()
	if err != nil {
		return nil, err
	}

	var p Provider
	switch cfg.Provider {
	case "smtp":
		p = NewSMTPProvider(cfg, templates)
	case "resend":
		p = NewResendProvider(cfg, templates)
	case "log", "":
		p = NewLogProvider(cfg, templates)
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// buildConfirmation собирает письмо подтверждения из шаблона
func buildConfirmation(templates *TemplateManager, cfg Config, to, username, link string) (*Email, error) {
	data := TemplateData{
		"AppName":  cfg.AppName,
		"Username": username,
		"Link":     link,
	}

	html, err := templates.Render(TemplateConfirmation, data)
	if err != nil {
		return nil, err
	}
	text, err := templates.Render(TemplateConfirmationText, data)
	if err != nil {
		return nil, err
	}

	return &Email{
		From:     cfg.FromEmail,
		To:       []string{to},
		Subject:  "Confirm your " + cfg.AppName + " account",
		Body:     text,
		HTMLBody: html,
	}, nil
}
