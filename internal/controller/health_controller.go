package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"

	"whatsapp-sales-be/internal/service"
)

type IHealthController interface {
	RegisterRoutes(app *fiber.App)
	Info(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	redisClient        *goredis.Client // nil when running on the memory store
	consumer           service.IConsumerService
	version            string
	whatsappConfigured bool
}

func NewHealthController(redisClient *goredis.Client, consumer service.IConsumerService, version string, whatsappConfigured bool) IHealthController {
	return &healthController{
		redisClient:        redisClient,
		consumer:           consumer,
		version:            version,
		whatsappConfigured: whatsappConfigured,
	}
}

func (c *healthController) RegisterRoutes(app *fiber.App) {
	app.Get("/", c.Info)
	app.Get("/health", c.Health)
}

// Info reports service metadata and counters for operators.
func (c *healthController) Info(ctx *fiber.Ctx) error {
	storage := "redis"
	if c.redisClient == nil {
		storage = "in-memory"
	}

	return ctx.JSON(fiber.Map{
		"service": "WhatsApp Sales Assistant",
		"version": c.version,
		"status":  "healthy",
		"storage": storage,
		"whatsapp": fiber.Map{
			"configured": c.whatsappConfigured,
		},
		"messages_processed": c.consumer.Processed(),
	})
}

// Health is the liveness probe. Unreachable Redis means unhealthy.
func (c *healthController) Health(ctx *fiber.Ctx) error {
	status := "healthy"
	statusCode := fiber.StatusOK

	if c.redisClient != nil {
		if err := c.redisClient.Ping(ctx.Context()).Err(); err != nil {
			status = "unhealthy"
			statusCode = fiber.StatusServiceUnavailable
		}
	}

	return ctx.Status(statusCode).JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
