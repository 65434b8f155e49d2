package email

import (
	"strings"

	"memberhub_backend/internal/logger"
)

// ConsoleProvider logs messages instead of delivering them. Used in
// development and in the env-driven test configuration.
type ConsoleProvider struct{}

func NewConsoleProvider() Provider {
	return &ConsoleProvider{}
}

func (p *ConsoleProvider) Send(email *Email) error {
	logger.Info("email (console)",
		"to", strings.Join(email.To, ", "),
		"subject", email.Subject,
		"body", email.Body,
	)
	return nil
}

func (p *ConsoleProvider) SendNotification(to, subject, message string) error {
	return p.Send(&Email{To: []string{to}, Subject: subject, Body: message})
}

func (p *ConsoleProvider) Close() error { return nil }
