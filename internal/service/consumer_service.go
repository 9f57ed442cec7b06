package service

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"whatsapp-sales-be/internal/dto"
	"whatsapp-sales-be/internal/pkg/logger"
)

// IConsumerService drains the conversation topic, keeping an exchange log
// and a processed counter for the status endpoint.
type IConsumerService interface {
	Consume(ctx context.Context) error
	Processed() uint64
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
	processed atomic.Uint64
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) Processed() uint64 {
	return cs.processed.Load()
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var turn dto.ConversationTurnMessage
	if err := json.Unmarshal(msg.Payload, &turn); err != nil {
		cs.logger.Error("consumer_service", "failed to unmarshal turn event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.processed.Add(1)
	cs.logger.Info("consumer_service", "conversation turn recorded", map[string]interface{}{
		"event_id":    turn.Id.String(),
		"user_id":     turn.UserID,
		"language":    turn.Language,
		"user_chars":  turn.UserChars,
		"reply_chars": turn.ReplyChars,
		"latency_ms":  turn.LatencyMs,
	})
	msg.Ack()
}
