package memory

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"whatsapp-sales-be/internal/constant"
	"whatsapp-sales-be/internal/repository/contract"
	"whatsapp-sales-be/pkg/store"
)

// SessionRepository keeps sessions in an expiring in-memory cache. Used for
// local development and tests, not for production.
type SessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ contract.SessionRepository = &SessionRepository{}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = constant.SessionTTL
	}
	// Expired entries are also dropped lazily on Get, the cleanup interval
	// only reclaims memory.
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{cache: c}
}

// Get implements contract.SessionRepository. Returns a copy so callers never
// alias the stored record. Reads do not refresh the TTL.
func (r *SessionRepository) Get(ctx context.Context, userID string) (*store.Session, error) {
	if x, found := r.cache.Get(userID); found {
		return x.(*store.Session).Clone(), nil
	}
	return store.NewSession(userID), nil
}

// AppendTurn implements contract.SessionRepository. The mutex serializes the
// read-modify-write per repository, closing the lost-update race between
// concurrent turns from the same user. Set resets the entry's TTL.
func (r *SessionRepository) AppendTurn(ctx context.Context, userID, userText, assistantText, language string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.Get(ctx, userID)
	if err != nil {
		return err
	}

	session.Append(store.Turn{
		Timestamp:     time.Now(),
		UserText:      userText,
		AssistantText: assistantText,
	})
	if language != "" {
		session.Language = language
	}

	r.cache.Set(userID, session, cache.DefaultExpiration)
	return nil
}
