package dto

import (
	"time"

	"github.com/google/uuid"
)

// TwilioWebhookPayload is the form-encoded webhook Twilio posts for an
// incoming WhatsApp message. Status callbacks arrive on the same route with
// an empty Body.
type TwilioWebhookPayload struct {
	MessageSid          string `form:"MessageSid"`
	AccountSid          string `form:"AccountSid"`
	MessagingServiceSid string `form:"MessagingServiceSid"`
	From                string `form:"From"` // WhatsApp number (whatsapp:+14155238886)
	To                  string `form:"To"`
	Body                string `form:"Body"` // Message text
	NumMedia            string `form:"NumMedia"`
}

// TestWebhookRequest drives the chat pipeline without Twilio. Development only.
type TestWebhookRequest struct {
	From    string `json:"from" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type TestWebhookResponse struct {
	Response string `json:"response"`
}

// ConversationTurnMessage is published on the conversation topic after each
// persisted turn.
type ConversationTurnMessage struct {
	Id         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	Language   string    `json:"language"`
	UserChars  int       `json:"user_chars"`
	ReplyChars int       `json:"reply_chars"`
	LatencyMs  int64     `json:"latency_ms"`
	Timestamp  time.Time `json:"timestamp"`
}
