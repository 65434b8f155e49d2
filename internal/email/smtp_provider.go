package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config for the SMTP provider.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	TemplatesDir string
}

func (c Config) Validate() error {
	if c.SMTPHost == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.SMTPPort == 0 {
		return fmt.Errorf("smtp port is required")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SMTPProvider delivers mail over SMTP via gomail.
type SMTPProvider struct {
	config    Config
	dialer    *gomail.Dialer
	templates *TemplateManager
}

func NewSMTPProvider(config Config) (Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	tm, err := NewTemplateManager(config.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	return &SMTPProvider{
		config:    config,
		dialer:    gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.Username, config.Password),
		templates: tm,
	}, nil
}

func (p *SMTPProvider) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	from := email.From
	if from == "" {
		from = p.config.FromEmail
	}
	m.SetAddressHeader("From", from, p.config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	return p.dialer.DialAndSend(m)
}

func (p *SMTPProvider) SendNotification(to, subject, message string) error {
	htmlBody, err := p.templates.Render("notification", shellData{
		Subject:     subject,
		Message:     message,
		CompanyName: p.config.FromName,
	})
	if err != nil {
		return fmt.Errorf("failed to render notification email: %w", err)
	}

	return p.Send(&Email{
		To:       []string{to},
		Subject:  subject,
		Body:     message,
		HTMLBody: htmlBody,
	})
}

func (p *SMTPProvider) Close() error {
	// gomail dials per send; nothing to close.
	return nil
}
