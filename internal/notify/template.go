package notify

import (
	"regexp"
)

// placeholderRe matches {{identifier}} tokens, with optional inner whitespace.
var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// Message is a resolved subject/content pair. Placeholders stay verbatim
// until MergeVars runs for a concrete recipient.
type Message struct {
	Subject string
	Content string
}

// MergeVars textually replaces {{identifier}} placeholders with values from
// vars. Unresolved placeholders are left as literal text; substitution never
// fails.
func MergeVars(text string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		if value, ok := vars[key]; ok {
			return value
		}
		return match
	})
}

// Merge resolves both parts of a message for one recipient.
func (m Message) Merge(vars map[string]string) Message {
	return Message{
		Subject: MergeVars(m.Subject, vars),
		Content: MergeVars(m.Content, vars),
	}
}

// RecipientVars builds the recognized per-recipient substitution keys.
// Keeping the set explicit documents what template authors may reference.
func RecipientVars(fullName, email, memberID, dashboardURL string) map[string]string {
	return map[string]string{
		"full_name":     fullName,
		"email":         email,
		"member_id":     memberID,
		"dashboard_url": dashboardURL,
	}
}
