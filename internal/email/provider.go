package email

// Email represents an outbound message.
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Provider sends email. Implementations: SMTP (gomail) and console (dev).
type Provider interface {
	// Send delivers a single message. The error is per-message: callers doing
	// fan-out must not treat one failure as fatal for the batch.
	Send(email *Email) error

	// SendNotification wraps subject/message in the branded HTML shell and
	// delivers it to one address.
	SendNotification(to, subject, message string) error

	// Close releases any provider resources.
	Close() error
}
