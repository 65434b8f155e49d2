package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeVarsReplacesKnownPlaceholders(t *testing.T) {
	vars := map[string]string{
		"full_name": "Aisha Bekova",
		"member_id": "MHB-2025-0042",
	}

	out := MergeVars("Hello {{full_name}}, your ID is {{member_id}}.", vars)
	assert.Equal(t, "Hello Aisha Bekova, your ID is MHB-2025-0042.", out)
}

func TestMergeVarsToleratesInnerWhitespace(t *testing.T) {
	out := MergeVars("Hi {{ full_name }}!", map[string]string{"full_name": "Omar"})
	assert.Equal(t, "Hi Omar!", out)
}

func TestMergeVarsLeavesUnresolvedPlaceholdersVerbatim(t *testing.T) {
	out := MergeVars("Hi {{full_name}}, promo: {{promo_code}}", map[string]string{
		"full_name": "Omar",
	})
	assert.Equal(t, "Hi Omar, promo: {{promo_code}}", out)
}

func TestMergeVarsIgnoresMalformedTokens(t *testing.T) {
	text := "single {brace} and {{bad key}} stay"
	out := MergeVars(text, map[string]string{"brace": "x", "bad key": "y"})
	assert.Equal(t, text, out)
}

func TestMessageMergeResolvesBothParts(t *testing.T) {
	msg := Message{
		Subject: "Welcome {{full_name}}",
		Content: "Visit {{dashboard_url}}",
	}

	merged := msg.Merge(RecipientVars("Dana", "dana@example.com", "MHB-2025-0007", "https://app.example.com"))

	assert.Equal(t, "Welcome Dana", merged.Subject)
	assert.Equal(t, "Visit https://app.example.com", merged.Content)
}

func TestRecipientVarsKeys(t *testing.T) {
	vars := RecipientVars("Dana", "dana@example.com", "MHB-2025-0007", "https://app.example.com")

	assert.Equal(t, map[string]string{
		"full_name":     "Dana",
		"email":         "dana@example.com",
		"member_id":     "MHB-2025-0007",
		"dashboard_url": "https://app.example.com",
	}, vars)
}
