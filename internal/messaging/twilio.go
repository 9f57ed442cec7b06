package messaging

import (
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"whatsapp-sales-be/internal/pkg/logger"
)

// Messenger sends outbound WhatsApp messages.
type Messenger interface {
	SendWhatsApp(to, body string) error
}

// TwilioMessenger sends via the Twilio REST API.
type TwilioMessenger struct {
	client *twilio.RestClient
	from   string // Format: "whatsapp:+14155238886"
	logger logger.ILogger
}

var _ Messenger = &TwilioMessenger{}

func NewTwilioMessenger(accountSID, authToken, from string, log logger.ILogger) (*TwilioMessenger, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioMessenger{
		client: client,
		from:   from,
		logger: log,
	}, nil
}

// SendWhatsApp sends a WhatsApp message to a bare phone number.
func (t *TwilioMessenger) SendWhatsApp(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		t.logger.Error("messenger", "failed to send whatsapp message", map[string]interface{}{
			"to":    to,
			"error": err.Error(),
		})
		return err
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	t.logger.Info("messenger", "whatsapp message sent", map[string]interface{}{
		"to":  to,
		"sid": sid,
	})
	return nil
}
