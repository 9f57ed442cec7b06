package store

import "time"

// MaxHistoryTurns bounds how many turns a session retains. The store keeps
// more than any single prompt consumes so the prompt window can grow later
// without a data-model change.
const MaxHistoryTurns = 10

// Turn is one user/assistant exchange. Immutable once appended.
type Turn struct {
	Timestamp     time.Time `json:"timestamp"`
	UserText      string    `json:"user"`
	AssistantText string    `json:"assistant"`
}

// Session is the per-user conversational memory held by the session store.
// Language stays empty until the resolver sets it on the first turn.
type Session struct {
	UserID   string `json:"user_id"`
	Language string `json:"language"`
	History  []Turn `json:"history"`
}

// NewSession returns the default session used when nothing is stored for a
// user (never seen or expired, the caller cannot tell the difference).
func NewSession(userID string) *Session {
	return &Session{
		UserID:  userID,
		History: []Turn{},
	}
}

// Append adds a turn at the end of the history and evicts the oldest turns
// beyond MaxHistoryTurns. Insertion order is preserved.
func (s *Session) Append(t Turn) {
	s.History = append(s.History, t)
	if len(s.History) > MaxHistoryTurns {
		s.History = s.History[len(s.History)-MaxHistoryTurns:]
	}
}

// Clone returns a deep copy so callers never alias stored state.
func (s *Session) Clone() *Session {
	history := make([]Turn, len(s.History))
	copy(history, s.History)
	return &Session{
		UserID:   s.UserID,
		Language: s.Language,
		History:  history,
	}
}
