package lang

import (
	"context"
	"strings"

	"whatsapp-sales-be/internal/constant"
	"whatsapp-sales-be/internal/pkg/logger"
	"whatsapp-sales-be/pkg/llm"
	"whatsapp-sales-be/pkg/store"
)

// Detector guesses the language of a piece of text.
type Detector interface {
	Detect(ctx context.Context, text string) (string, error)
}

const detectSystemPrompt = "Detect the language of the text and return only the ISO code like 'en'."

// LLMDetector asks the chat model for an ISO code. Temperature 0 keeps the
// answer deterministic.
type LLMDetector struct {
	provider llm.LLMProvider
}

var _ Detector = &LLMDetector{}

func NewLLMDetector(provider llm.LLMProvider) *LLMDetector {
	return &LLMDetector{provider: provider}
}

func (d *LLMDetector) Detect(ctx context.Context, text string) (string, error) {
	raw, err := d.provider.Chat(ctx,
		[]llm.Message{
			{Role: constant.ChatMessageRoleSystem, Content: detectSystemPrompt},
			{Role: constant.ChatMessageRoleUser, Content: text},
		},
		llm.WithTemperature(0),
		llm.WithMaxTokens(constant.DetectMaxTokens),
	)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(raw)), nil
}

// Resolver applies the sticky language policy: the first detected language
// wins for the life of the session.
type Resolver struct {
	detector Detector
	logger   logger.ILogger
}

func NewResolver(detector Detector, log logger.ILogger) *Resolver {
	return &Resolver{
		detector: detector,
		logger:   log,
	}
}

// Resolve returns the session's language, detecting it only when the session
// is effectively new (no language set or no prior turns). Detection failures
// degrade to DefaultCode and never propagate.
func (r *Resolver) Resolve(ctx context.Context, session *store.Session, newMessage string) string {
	if session.Language != "" && len(session.History) > 0 {
		return session.Language
	}

	code, err := r.detector.Detect(ctx, newMessage)
	if err != nil {
		r.logger.Warn("lang_resolver", "language detection failed", map[string]interface{}{
			"user_id": session.UserID,
			"error":   err.Error(),
		})
		return DefaultCode
	}

	return Normalize(code)
}
