package contract

import (
	"context"

	"whatsapp-sales-be/pkg/store"
)

// SessionRepository is the typed layer over the keyed, TTL-scoped storage
// backend holding per-user conversation state.
type SessionRepository interface {
	// Get returns the stored session if present and unexpired, otherwise a
	// fresh default session. The default is never written back, so a missing
	// session and an expired one look the same to callers.
	Get(ctx context.Context, userID string) (*store.Session, error)

	// AppendTurn atomically loads the current session, appends a new turn,
	// trims history to the retention bound, sets the language when non-empty
	// and persists with the TTL reset. Atomic per user, so concurrent turns
	// from one user cannot lose each other's update.
	AppendTurn(ctx context.Context, userID, userText, assistantText, language string) error
}
