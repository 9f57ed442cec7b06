package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp-sales-be/internal/constant"
	"whatsapp-sales-be/internal/dto"
	"whatsapp-sales-be/internal/pkg/logger"
	"whatsapp-sales-be/internal/repository/memory"
	"whatsapp-sales-be/pkg/business"
	"whatsapp-sales-be/pkg/chat"
	"whatsapp-sales-be/pkg/lang"
	"whatsapp-sales-be/pkg/llm"
	"whatsapp-sales-be/pkg/store"
)

// fakeLLM answers every chat call with a canned reply and records the
// last message list it received.
type fakeLLM struct {
	reply    string
	err      error
	lastSent []llm.Message
	calls    int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.lastSent = history
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: constant.ChatMessageRoleUser, Content: prompt}}, options...)
}

type stubDetector struct {
	code  string
	calls int
}

func (s *stubDetector) Detect(ctx context.Context, text string) (string, error) {
	s.calls++
	return s.code, nil
}

// hangingDetector never answers on its own; it only returns once the call's
// context is cancelled or times out.
type hangingDetector struct {
	sawDeadline bool
}

func (h *hangingDetector) Detect(ctx context.Context, text string) (string, error) {
	<-ctx.Done()
	_, h.sawDeadline = ctx.Deadline()
	return "", ctx.Err()
}

type fakePublisher struct {
	events []*dto.ConversationTurnMessage
}

func (f *fakePublisher) PublishTurn(msg *dto.ConversationTurnMessage) error {
	f.events = append(f.events, msg)
	return nil
}

// brokenSessions fails every read.
type brokenSessions struct{}

func (brokenSessions) Get(ctx context.Context, userID string) (*store.Session, error) {
	return nil, errors.New("connection refused")
}

func (brokenSessions) AppendTurn(ctx context.Context, userID, userText, assistantText, language string) error {
	return errors.New("connection refused")
}

type serviceFixture struct {
	service   IChatService
	sessions  *memory.SessionRepository
	model     *fakeLLM
	detector  *stubDetector
	publisher *fakePublisher
}

func newFixture(t *testing.T, model *fakeLLM, detector *stubDetector) *serviceFixture {
	t.Helper()
	sessions := memory.NewSessionRepository(time.Hour)
	publisher := &fakePublisher{}
	svc := NewChatService(
		sessions,
		lang.NewResolver(detector, logger.NewNopLogger()),
		business.NewStaticProvider(),
		chat.NewAssembler(sessions),
		model,
		publisher,
		logger.NewNopLogger(),
		"demo",
		time.Second,
	)
	return &serviceFixture{
		service:   svc,
		sessions:  sessions,
		model:     model,
		detector:  detector,
		publisher: publisher,
	}
}

func TestReplyFirstContact(t *testing.T) {
	model := &fakeLLM{reply: "Hello! How can I help?"}
	detector := &stubDetector{code: "es"}
	fx := newFixture(t, model, detector)

	reply := fx.service.Reply(context.Background(), "+2348100000001", "Hola")
	require.Equal(t, "Hello! How can I help?", reply)

	// Spanish is not a supported language, so the session falls back to English.
	session, err := fx.sessions.Get(context.Background(), "+2348100000001")
	require.NoError(t, err)
	assert.Equal(t, "en", session.Language)
	require.Len(t, session.History, 1)
	assert.Equal(t, "Hola", session.History[0].UserText)
	assert.Equal(t, "Hello! How can I help?", session.History[0].AssistantText)

	// System prompt carries the catalog and the language instruction.
	require.Len(t, model.lastSent, 2)
	assert.Equal(t, constant.ChatMessageRoleSystem, model.lastSent[0].Role)
	assert.Contains(t, model.lastSent[0].Content, "Demo Store")
	assert.Contains(t, model.lastSent[0].Content, "Respond in English.")
	assert.Equal(t, "Hola", model.lastSent[1].Content)

	require.Len(t, fx.publisher.events, 1)
	assert.Equal(t, "+2348100000001", fx.publisher.events[0].UserID)
	assert.Equal(t, "en", fx.publisher.events[0].Language)
}

func TestReplyModelFailureDegrades(t *testing.T) {
	model := &fakeLLM{err: errors.New("upstream timeout")}
	detector := &stubDetector{code: "en"}
	fx := newFixture(t, model, detector)

	reply := fx.service.Reply(context.Background(), "+15550001", "hello")
	assert.Equal(t, constant.FallbackReply, reply)

	// Nothing is persisted and no event is published on failure.
	session, err := fx.sessions.Get(context.Background(), "+15550001")
	require.NoError(t, err)
	assert.Empty(t, session.History)
	assert.Empty(t, fx.publisher.events)
}

func TestReplySessionReadFailureDegrades(t *testing.T) {
	model := &fakeLLM{reply: "should never be used"}
	publisher := &fakePublisher{}
	svc := NewChatService(
		brokenSessions{},
		lang.NewResolver(&stubDetector{code: "en"}, logger.NewNopLogger()),
		business.NewStaticProvider(),
		chat.NewAssembler(brokenSessions{}),
		model,
		publisher,
		logger.NewNopLogger(),
		"demo",
		time.Second,
	)

	reply := svc.Reply(context.Background(), "+15550002", "hello")
	assert.Equal(t, constant.FallbackReply, reply)
	assert.Zero(t, model.calls)
	assert.Empty(t, publisher.events)
}

func TestReplyStickyLanguageSkipsDetection(t *testing.T) {
	model := &fakeLLM{reply: "Bonjour!"}
	detector := &stubDetector{code: "en"}
	fx := newFixture(t, model, detector)

	// Seed an established French conversation.
	require.NoError(t, fx.sessions.AppendTurn(context.Background(), "+33600000001", "Bonjour", "Salut!", "fr"))

	fx.service.Reply(context.Background(), "+33600000001", "ok thanks")

	assert.Zero(t, detector.calls, "established session must not re-detect")
	assert.Contains(t, model.lastSent[0].Content, "Respond in French.")

	session, err := fx.sessions.Get(context.Background(), "+33600000001")
	require.NoError(t, err)
	assert.Equal(t, "fr", session.Language)
}

func TestReplyBoundsDetectionCall(t *testing.T) {
	model := &fakeLLM{reply: "Hello!"}
	detector := &hangingDetector{}
	sessions := memory.NewSessionRepository(time.Hour)
	svc := NewChatService(
		sessions,
		lang.NewResolver(detector, logger.NewNopLogger()),
		business.NewStaticProvider(),
		chat.NewAssembler(sessions),
		model,
		&fakePublisher{},
		logger.NewNopLogger(),
		"demo",
		50*time.Millisecond,
	)

	start := time.Now()
	reply := svc.Reply(context.Background(), "+15550004", "hello")
	elapsed := time.Since(start)

	// The hung detection is cut off by the timeout and degrades to English;
	// the reply still goes through.
	assert.Equal(t, "Hello!", reply)
	assert.True(t, detector.sawDeadline, "detection call must carry a deadline")
	assert.Less(t, elapsed, 2*time.Second)

	session, err := sessions.Get(context.Background(), "+15550004")
	require.NoError(t, err)
	assert.Equal(t, "en", session.Language)
}

func TestReplyEvictsOldestTurn(t *testing.T) {
	model := &fakeLLM{reply: "reply"}
	fx := newFixture(t, model, &stubDetector{code: "en"})

	userID := "+15550003"
	for i := 1; i <= store.MaxHistoryTurns; i++ {
		require.NoError(t, fx.sessions.AppendTurn(context.Background(), userID,
			fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i), "en"))
	}

	fx.service.Reply(context.Background(), userID, "one more")

	session, err := fx.sessions.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, session.History, store.MaxHistoryTurns)
	assert.Equal(t, "question 2", session.History[0].UserText)
	assert.Equal(t, "one more", session.History[store.MaxHistoryTurns-1].UserText)

	// Prompt window stays at five turns plus system and new message.
	assert.Len(t, model.lastSent, 1+2*chat.ContextWindowTurns+1)
}
