package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildWhatsAppLink(t *testing.T) {
	link, err := BuildWhatsAppLink("+7 (701) 555-12-34", "Your membership is active")
	assert.NoError(t, err)
	assert.Equal(t, "https://wa.me/77015551234?text=Your+membership+is+active", link)
}

func TestBuildWhatsAppLinkEscapesMessage(t *testing.T) {
	link, err := BuildWhatsAppLink("15551234567", "50% off & more: renew now?")
	assert.NoError(t, err)
	assert.Equal(t, "https://wa.me/15551234567?text=50%25+off+%26+more%3A+renew+now%3F", link)
}

func TestBuildWhatsAppLinkRequiresDigits(t *testing.T) {
	_, err := BuildWhatsAppLink("", "hi")
	assert.Error(t, err)

	_, err = BuildWhatsAppLink("+-() ", "hi")
	assert.Error(t, err)
}
