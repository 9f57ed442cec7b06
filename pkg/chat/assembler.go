package chat

import (
	"context"

	"whatsapp-sales-be/internal/constant"
	"whatsapp-sales-be/internal/repository/contract"
	"whatsapp-sales-be/pkg/llm"
	"whatsapp-sales-be/pkg/store"
)

// ContextWindowTurns is how many prior turns a single prompt carries.
// Deliberately smaller than store.MaxHistoryTurns: the store retains more
// than any one call consumes.
const ContextWindowTurns = 5

// Assembler turns session state into an ordered message list for the model
// and folds the model's reply back into the session store.
type Assembler struct {
	sessions contract.SessionRepository
}

func NewAssembler(sessions contract.SessionRepository) *Assembler {
	return &Assembler{sessions: sessions}
}

// Build produces [system] + the last ContextWindowTurns turns as
// user/assistant pairs (oldest first) + the new user message.
func (a *Assembler) Build(systemPrompt string, history []store.Turn, newMessage string) []llm.Message {
	window := history
	if len(window) > ContextWindowTurns {
		window = window[len(window)-ContextWindowTurns:]
	}

	messages := make([]llm.Message, 0, 2+2*len(window))
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range window {
		messages = append(messages,
			llm.Message{Role: constant.ChatMessageRoleUser, Content: turn.UserText},
			llm.Message{Role: constant.ChatMessageRoleAssistant, Content: turn.AssistantText},
		)
	}
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: newMessage,
	})

	return messages
}

// Absorb makes a model reply durable conversational memory. This is the only
// path that writes a turn.
func (a *Assembler) Absorb(ctx context.Context, userID, userText, assistantReply, language string) error {
	return a.sessions.AppendTurn(ctx, userID, userText, assistantReply, language)
}
