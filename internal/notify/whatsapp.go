package notify

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// BuildWhatsAppLink constructs a wa.me deep link carrying the message text.
// This is a client-initiated handoff, not a programmatic delivery: for bulk
// sends the link is recorded in the delivery log rather than opened.
func BuildWhatsAppLink(phone, text string) (string, error) {
	number := normalizePhone(phone)
	if number == "" {
		return "", errors.New("recipient has no phone number")
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(text)), nil
}

// normalizePhone strips formatting characters; wa.me expects digits only,
// without the leading plus.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
