package controller

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"whatsapp-sales-be/internal/constant"
	"whatsapp-sales-be/internal/dto"
	"whatsapp-sales-be/internal/messaging"
	"whatsapp-sales-be/internal/pkg/logger"
	"whatsapp-sales-be/internal/pkg/serverutils"
	"whatsapp-sales-be/internal/service"
)

type IWebhookController interface {
	RegisterRoutes(app *fiber.App)
	HandleIncoming(ctx *fiber.Ctx) error
	HandleTest(ctx *fiber.Ctx) error
}

type webhookController struct {
	chatService service.IChatService
	messenger   messaging.Messenger // nil when Twilio is not configured
	logger      logger.ILogger
}

func NewWebhookController(chatService service.IChatService, messenger messaging.Messenger, log logger.ILogger) IWebhookController {
	return &webhookController{
		chatService: chatService,
		messenger:   messenger,
		logger:      log,
	}
}

func (c *webhookController) RegisterRoutes(app *fiber.App) {
	app.Post("/webhook", c.HandleIncoming)
	app.Post("/webhook/test", c.HandleTest)
}

// HandleIncoming processes a Twilio WhatsApp webhook. Status callbacks (no
// body) are acknowledged and dropped. The webhook is always answered 200 so
// Twilio does not retry, failures surface to the user as the apology reply.
func (c *webhookController) HandleIncoming(ctx *fiber.Ctx) error {
	var payload dto.TwilioWebhookPayload
	if err := ctx.BodyParser(&payload); err != nil {
		c.logger.Error("webhook", "invalid webhook payload", map[string]interface{}{
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	from := strings.TrimPrefix(payload.From, "whatsapp:")
	body := strings.TrimSpace(payload.Body)
	if from == "" || body == "" {
		return ctx.SendStatus(fiber.StatusOK)
	}

	// A fault inside the pipeline must still answer the user, not just Twilio.
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("webhook", "handler panicked", map[string]interface{}{
				"from":  from,
				"panic": fmt.Sprintf("%v", r),
			})
			if c.messenger != nil {
				_ = c.messenger.SendWhatsApp(from, constant.WebhookErrorReply)
			}
			_ = ctx.SendStatus(fiber.StatusOK)
		}
	}()

	requestID := uuid.NewString()
	c.logger.Info("webhook", "incoming whatsapp message", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"chars":      len(body),
	})

	reply := c.chatService.Reply(ctx.Context(), from, body)

	if c.messenger != nil {
		if err := c.messenger.SendWhatsApp(from, reply); err != nil {
			c.logger.Error("webhook", "failed to send reply", map[string]interface{}{
				"request_id": requestID,
				"from":       from,
				"error":      err.Error(),
			})
		}
	} else {
		c.logger.Info("webhook", "reply not sent, messenger not configured", map[string]interface{}{
			"request_id": requestID,
			"reply":      reply,
		})
	}

	return ctx.SendStatus(fiber.StatusOK)
}

// HandleTest drives the chat pipeline from a JSON body without Twilio.
func (c *webhookController) HandleTest(ctx *fiber.Ctx) error {
	var req dto.TestWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid test payload")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	reply := c.chatService.Reply(ctx.Context(), req.From, strings.TrimSpace(req.Message))

	return ctx.JSON(serverutils.SuccessResponse("reply generated", &dto.TestWebhookResponse{
		Response: reply,
	}))
}
