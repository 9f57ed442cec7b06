package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"whatsapp-sales-be/internal/constant"
	"whatsapp-sales-be/internal/repository/contract"
	"whatsapp-sales-be/pkg/store"
)

// appendRetries bounds optimistic-lock retries under concurrent writers for
// the same user.
const appendRetries = 3

// SessionRepository stores sessions as JSON values under a namespaced key
// with a per-key TTL.
type SessionRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

var _ contract.SessionRepository = &SessionRepository{}

func NewSessionRepository(client *goredis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = constant.SessionTTL
	}
	return &SessionRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *SessionRepository) key(userID string) string {
	return constant.SessionKeyPrefix + userID
}

// Get implements contract.SessionRepository. An expired or missing key
// yields a fresh default session, not an error.
func (r *SessionRepository) Get(ctx context.Context, userID string) (*store.Session, error) {
	val, err := r.client.Get(ctx, r.key(userID)).Result()
	if err == goredis.Nil {
		return store.NewSession(userID), nil
	}
	if err != nil {
		return nil, err
	}

	var session store.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		// A corrupt payload is treated the same as an expired session.
		return store.NewSession(userID), nil
	}
	return &session, nil
}

// AppendTurn implements contract.SessionRepository. The read-modify-write
// runs under WATCH so two concurrent turns for the same user both land;
// on a conflicting write the transaction is retried against the fresh value.
func (r *SessionRepository) AppendTurn(ctx context.Context, userID, userText, assistantText, language string) error {
	key := r.key(userID)

	var lastErr error
	for attempt := 0; attempt < appendRetries; attempt++ {
		err := r.client.Watch(ctx, func(tx *goredis.Tx) error {
			session := store.NewSession(userID)

			val, err := tx.Get(ctx, key).Result()
			if err != nil && err != goredis.Nil {
				return err
			}
			if err == nil {
				if uerr := json.Unmarshal([]byte(val), session); uerr != nil {
					session = store.NewSession(userID)
				}
			}

			session.Append(store.Turn{
				Timestamp:     time.Now(),
				UserText:      userText,
				AssistantText: assistantText,
			})
			if language != "" {
				session.Language = language
			}

			payload, err := json.Marshal(session)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
				pipe.Set(ctx, key, payload, r.ttl)
				return nil
			})
			return err
		}, key)

		if err == goredis.TxFailedErr {
			lastErr = err
			continue
		}
		return err
	}
	return lastErr
}
