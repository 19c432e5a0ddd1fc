package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_Selection(t *testing.T) {
	p, err := NewProvider(Config{Provider: "log"})
	require.NoError(t, err)
	assert.IsType(t, &LogProvider{}, p)

	_, err = NewProvider(Config{Provider: "smtp"})
	assert.Error(t, err, "smtp without host must fail validation")

	p, err = NewProvider(Config{Provider: "smtp", SMTPHost: "smtp.example.com", SMTPPort: 587, FromEmail: "no-reply@example.com"})
	require.NoError(t, err)
	assert.IsType(t, &SMTPProvider{}, p)

	_, err = NewProvider(Config{Provider: "resend"})
	assert.Error(t, err)

	p, err = NewProvider(Config{Provider: "resend", ResendAPIKey: "re_test", FromEmail: "no-reply@example.com"})
	require.NoError(t, err)
	assert.IsType(t, &ResendProvider{}, p)

	_, err = NewProvider(Config{Provider: "pigeon"})
	assert.Error(t, err)
}

func TestLogProvider_SendConfirmation(t *testing.T) {
	p, err := NewProvider(Config{Provider: "log", AppName: "SkyJobs", FromEmail: "no-reply@example.com"})
	require.NoError(t, err)
	lp := p.(*LogProvider)

	link := "http://localhost:8000/api/confirm/abc123"
	require.NoError(t, lp.SendConfirmation(context.Background(), "alice@example.com", "alice", link))

	sent := lp.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, sent[0].To)
	assert.Equal(t, "Confirm your SkyJobs account", sent[0].Subject)
	assert.Contains(t, sent[0].HTMLBody, link)
	assert.Contains(t, sent[0].Body, link)
	assert.Contains(t, sent[0].Body, "alice")
}

func TestTemplateManager_EscapesHTML(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	out, err := tm.Render(TemplateConfirmation, TemplateData{"Username": "<script>", "Link": "http://x", "AppName": "A"})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")

	_, err = tm.Render("missing.html", nil)
	assert.Error(t, err)
}

func TestSMTPProvider_BuildMessage(t *testing.T) {
	p := NewSMTPProvider(Config{SMTPHost: "h", SMTPPort: 25, FromEmail: "from@example.com", FromName: "Sky"}, nil)

	m := p.buildMessage(&Email{To: []string{"to@example.com"}, Subject: "Hi", Body: "text", HTMLBody: "<b>html</b>"})

	assert.Equal(t, []string{"Hi"}, m.GetHeader("Subject"))
	assert.Equal(t, []string{"to@example.com"}, m.GetHeader("To"))
	require.Len(t, m.GetHeader("From"), 1)
	assert.Contains(t, m.GetHeader("From")[0], "from@example.com")
}
