package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	goredis "github.com/redis/go-redis/v9"

	"whatsapp-sales-be/internal/config"
	"whatsapp-sales-be/internal/controller"
	"whatsapp-sales-be/internal/messaging"
	"whatsapp-sales-be/internal/pkg/logger"
	"whatsapp-sales-be/internal/repository/contract"
	"whatsapp-sales-be/internal/repository/memory"
	redisrepo "whatsapp-sales-be/internal/repository/redis"
	"whatsapp-sales-be/internal/service"
	"whatsapp-sales-be/pkg/business"
	"whatsapp-sales-be/pkg/chat"
	"whatsapp-sales-be/pkg/lang"
	"whatsapp-sales-be/pkg/llm/factory"
)

const version = "1.0.0"

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController
	HealthController  controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared infrastructure main.go needs for shutdown
	Logger logger.ILogger
	Redis  *goredis.Client
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	sessionTTL := time.Duration(cfg.App.SessionTTLSeconds) * time.Second

	// 2. Session Storage
	var sessionRepo contract.SessionRepository
	var rdb *goredis.Client
	if cfg.App.UseMemoryStore {
		sysLogger.Warn("bootstrap", "using in-memory session store (not for production)", nil)
		sessionRepo = memory.NewSessionRepository(sessionTTL)
	} else {
		opt, err := goredis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &goredis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = goredis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionRepo = redisrepo.NewSessionRepository(rdb, sessionTTL)
	}

	// 3. Model Capability
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OpenAIAPIKey,
		openAIOrOllamaBaseURL(cfg),
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Domain Components
	detector := lang.NewLLMDetector(llmProvider)
	resolver := lang.NewResolver(detector, sysLogger)
	catalog := business.NewStaticProvider()
	assembler := chat.NewAssembler(sessionRepo)

	// 5. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisherService := service.NewPublisherService(cfg.App.ConversationTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.ConversationTopic, sysLogger)

	// 6. Outbound Messaging
	var messenger messaging.Messenger
	if tm, err := messaging.NewTwilioMessenger(
		cfg.Twilio.AccountSID,
		cfg.Twilio.AuthToken,
		cfg.Twilio.WhatsAppFrom,
		sysLogger,
	); err != nil {
		log.Printf("[WARN] Twilio messenger not configured: %v (replies will be logged only)", err)
	} else {
		messenger = tm
	}

	// 7. Services
	chatService := service.NewChatService(
		sessionRepo,
		resolver,
		catalog,
		assembler,
		llmProvider,
		publisherService,
		sysLogger,
		cfg.Business.ID,
		time.Duration(cfg.Ai.ModelTimeoutSeconds)*time.Second,
	)

	// 8. Controllers
	return &Container{
		WebhookController: controller.NewWebhookController(chatService, messenger, sysLogger),
		HealthController:  controller.NewHealthController(rdb, consumerService, version, messenger != nil),
		ConsumerService:   consumerService,
		Logger:            sysLogger,
		Redis:             rdb,
	}
}

func openAIOrOllamaBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.OpenAIBaseURL
}
