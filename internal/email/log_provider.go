package email

import (
	"context"
	"sync"

	"skyjobs/internal/logger"
)

// LogProvider ничего не отправляет, а пишет письма в лог и хранит последние в памяти.
// Используется в разработке и тестах.
type LogProvider struct {
	config    Config
	templates *TemplateManager

	mu   sync.Mutex
	sent []Email
}

func NewLogProvider(cfg Config, templates *TemplateManager) *LogProvider {
	return &LogProvider{
		config:    cfg,
		templates: templates,
	}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	p.mu.Lock()
	p.sent = append(p.sent, *email)
	p.mu.Unlock()

	logger.CtxInfo(ctx, "email sent (log provider)", "to", email.To, "subject", email.Subject)
	return nil
}

func (p *LogProvider) SendConfirmation(ctx context.Context, to, username, link string) error {
	msg, err := buildConfirmation(p.templates, p.config, to, username, link)
	if err != nil {
		return err
	}
	logger.CtxInfo(ctx, "confirmation link", "username", username, "link", link)
	return p.Send(ctx, msg)
}

// Sent возвращает копию отправленных писем
func (p *LogProvider) Sent() []Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Email, len(p.sent))
	copy(out, p.sent)
	return out
}

func (p *LogProvider) Validate() error {
	return nil
}

func (p *LogProvider) Close() error {
	return nil
}
