package email

import (
	"fmt"
	htmltemplate "html/template"
	"strings"
	"sync"
	texttemplate "text/template"
)

const (
	TemplateConfirmation     = "confirmation.html"
	TemplateConfirmationText = "confirmation.txt"
)

const confirmationHTML = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <h2>Welcome to {{.AppName}}, {{.Username}}!</h2>
  <p>Please confirm your email address to activate your account.</p>
  <p><a href="{{.Link}}">Confirm my account</a></p>
  <p>If the button does not work, open this link: {{.Link}}</p>
</body>
</html>`

const confirmationText = `Welcome to {{.AppName}}, {{.Username}}!

Please confirm your email address by opening the link below:
{{.Link}}
`

// TemplateManager хранит шаблоны писем
type TemplateManager struct {
	html  map[string]*htmltemplate.Template
	text  map[string]*texttemplate.Template
	mutex sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{
		html: make(map[string]*htmltemplate.Template),
		text: make(map[string]*texttemplate.Template),
	}
	if err := tm.AddTemplate(TemplateConfirmation, confirmationHTML); err != nil {
		return nil, err
	}
	if err := tm.AddTemplate(TemplateConfirmationText, confirmationText); err != nil {
		return nil, err
	}
	return tm, nil
}

// AddTemplate добавляет шаблон. Имена *.html экранируются как HTML.
func (tm *TemplateManager) AddTemplate(name, body string) error {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	if strings.HasSuffix(name, ".html") {
		tpl, err := htmltemplate.New(name).Parse(body)
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		tm.html[name] = tpl
		return nil
	}

	tpl, err := texttemplate.New(name).Parse(body)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	tm.text[name] = tpl
	return nil
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(name string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	htmlTpl, isHTML := tm.html[name]
	textTpl, isText := tm.text[name]
	tm.mutex.RUnlock()

	var buf strings.Builder
	switch {
	case isHTML:
		if err := htmlTpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("failed to execute template: %w", err)
		}
	case isText:
		if err := textTpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("failed to execute template: %w", err)
		}
	default:
		return "", fmt.Errorf("template not found: %s", name)
	}
	return buf.String(), nil
}
