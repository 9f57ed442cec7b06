package constant

import "time"

const (
	ChatMessageRoleSystem    = "system"
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	// SessionKeyPrefix namespaces session keys in the storage backend.
	SessionKeyPrefix = "context:"

	// SessionTTL is how long an inactive session survives. Reset on every write.
	SessionTTL = 3600 * time.Second

	// Sampling parameters for the reply generation call.
	ReplyTemperature = 0.7
	ReplyMaxTokens   = 200

	// DetectMaxTokens caps the language detection call, the model only needs
	// to return an ISO code.
	DetectMaxTokens = 10

	// FallbackReply is the fixed user-facing message when the request degrades.
	// No technical detail leaks to the end user.
	FallbackReply = "Sorry, I'm having trouble responding. Please try again later."

	// WebhookErrorReply is returned when the webhook itself faults before the
	// chat pipeline runs.
	WebhookErrorReply = "An error occurred. Please try again."
)
