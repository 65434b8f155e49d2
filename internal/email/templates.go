package email

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
)

// TemplateManager renders the branded HTML shell around notification content.
// Custom shells can be dropped into the templates dir; otherwise the built-in
// layout is used.
type TemplateManager struct {
	templates map[string]*template.Template
}

const baseLayout = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; background: #f4f4f7; margin: 0; padding: 24px;">
  <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
    <h2 style="color: #1a1a2e; margin-top: 0;">{{.Subject}}</h2>
    <div style="color: #444; line-height: 1.6; white-space: pre-line;">{{.Message}}</div>
    <hr style="border: none; border-top: 1px solid #eee; margin: 24px 0;">
    <p style="color: #999; font-size: 12px;">{{.CompanyName}} · This is an automated message.</p>
  </div>
</body>
</html>`

// NewTemplateManager loads *.html templates from dir (optional) and always
// registers the built-in "notification" layout.
func NewTemplateManager(dir string) (*TemplateManager, error) {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}

	base, err := template.New("notification").Parse(baseLayout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in layout: %w", err)
	}
	tm.templates["notification"] = base

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return tm, nil
			}
			return nil, fmt.Errorf("failed to read templates dir: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".html")
			tpl, err := template.ParseFiles(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("failed to parse template %s: %w", entry.Name(), err)
			}
			tm.templates[name] = tpl
		}
	}

	return tm, nil
}

// Render executes the named template.
func (tm *TemplateManager) Render(name string, data interface{}) (string, error) {
	tpl, ok := tm.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template: %s", name)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// shellData is what the built-in layout expects.
type shellData struct {
	Subject     string
	Message     string
	CompanyName string
}
