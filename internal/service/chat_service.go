package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"whatsapp-sales-be/internal/constant"
	"whatsapp-sales-be/internal/dto"
	"whatsapp-sales-be/internal/pkg/logger"
	"whatsapp-sales-be/internal/repository/contract"
	"whatsapp-sales-be/pkg/business"
	"whatsapp-sales-be/pkg/chat"
	"whatsapp-sales-be/pkg/lang"
	"whatsapp-sales-be/pkg/llm"
)

// IChatService turns an inbound user message into a reply.
type IChatService interface {
	Reply(ctx context.Context, userID, message string) string
}

// chatService sequences one request: resolve session, resolve language,
// assemble prompt, invoke model, persist turn. Holds no per-request state.
type chatService struct {
	sessions     contract.SessionRepository
	resolver     *lang.Resolver
	catalog      business.Provider
	assembler    *chat.Assembler
	llmProvider  llm.LLMProvider
	publisher    IPublisherService
	logger       logger.ILogger
	businessID   string
	modelTimeout time.Duration
}

func NewChatService(
	sessions contract.SessionRepository,
	resolver *lang.Resolver,
	catalog business.Provider,
	assembler *chat.Assembler,
	llmProvider llm.LLMProvider,
	publisher IPublisherService,
	log logger.ILogger,
	businessID string,
	modelTimeout time.Duration,
) IChatService {
	if modelTimeout <= 0 {
		modelTimeout = 60 * time.Second
	}
	return &chatService{
		sessions:     sessions,
		resolver:     resolver,
		catalog:      catalog,
		assembler:    assembler,
		llmProvider:  llmProvider,
		publisher:    publisher,
		logger:       log,
		businessID:   businessID,
		modelTimeout: modelTimeout,
	}
}

// Reply runs the pipeline and returns the reply text. Every failure after
// this point degrades to the fixed apology without persisting a turn; the
// caller never sees an error.
func (cs *chatService) Reply(ctx context.Context, userID, message string) string {
	start := time.Now()

	session, err := cs.sessions.Get(ctx, userID)
	if err != nil {
		cs.logger.Error("chat_service", "session read failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return constant.FallbackReply
	}

	// Detection is a model call too, bound it like the reply call so a hung
	// backend cannot stall the request here.
	detectCtx, cancelDetect := context.WithTimeout(ctx, cs.modelTimeout)
	language := cs.resolver.Resolve(detectCtx, session, message)
	cancelDetect()

	systemPrompt := cs.catalog.Render(cs.businessID, language)
	messages := cs.assembler.Build(systemPrompt, session.History, message)

	// Bound the model call so a hung backend cannot hang the request.
	callCtx, cancel := context.WithTimeout(ctx, cs.modelTimeout)
	defer cancel()

	reply, err := cs.llmProvider.Chat(callCtx, messages,
		llm.WithTemperature(constant.ReplyTemperature),
		llm.WithMaxTokens(constant.ReplyMaxTokens),
	)
	if err != nil {
		cs.logger.Error("chat_service", "model invocation failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return constant.FallbackReply
	}

	if err := cs.assembler.Absorb(ctx, userID, message, reply, language); err != nil {
		cs.logger.Error("chat_service", "failed to persist turn", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return constant.FallbackReply
	}

	latency := time.Since(start)
	if cs.publisher != nil {
		if err := cs.publisher.PublishTurn(&dto.ConversationTurnMessage{
			Id:         uuid.New(),
			UserID:     userID,
			Language:   language,
			UserChars:  len(message),
			ReplyChars: len(reply),
			LatencyMs:  latency.Milliseconds(),
			Timestamp:  time.Now(),
		}); err != nil {
			cs.logger.Warn("chat_service", "failed to publish turn event", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}

	cs.logger.Info("chat_service", "reply generated", map[string]interface{}{
		"user_id":    userID,
		"language":   language,
		"latency_ms": latency.Milliseconds(),
	})
	return reply
}
