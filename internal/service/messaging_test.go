package service

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-sales-be/internal/dto"
	"whatsapp-sales-be/internal/pkg/logger"
)

func waitForProcessed(t *testing.T, consumer IConsumerService, want uint64) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if consumer.Processed() >= want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("processed %d events, want %d", consumer.Processed(), want)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestPublishConsumeRoundTrip(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	const topic = "CONVERSATION_TURNS"
	consumer := NewConsumerService(pubSub, topic, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(topic, pubSub)
	for i := 0; i < 3; i++ {
		require.NoError(t, publisher.PublishTurn(&dto.ConversationTurnMessage{
			Id:        uuid.New(),
			UserID:    "+15550001",
			Language:  "en",
			Timestamp: time.Now(),
		}))
	}

	waitForProcessed(t, consumer, 3)
}

func TestConsumerAcksMalformedPayload(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	const topic = "CONVERSATION_TURNS"
	consumer := NewConsumerService(pubSub, topic, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(context.Background()))

	bad := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	require.NoError(t, pubSub.Publish(topic, bad))

	// The malformed message must be acked and never counted.
	select {
	case <-bad.Acked():
	case <-time.After(2 * time.Second):
		t.Fatal("malformed message was not acked")
	}
	assert.Zero(t, consumer.Processed())
}
