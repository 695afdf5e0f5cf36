// Package redis provides Redis-backed session storage and locking for
// deployments where the dialog state must outlive a single process.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"quickride/internal/domain"
)

const sessionKeyPrefix = "session:"

// SessionStore stores dialog sessions as JSON blobs in Redis. A non-zero TTL
// maps directly to key expiry, so idle sessions vanish server-side.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a Redis session store. ttl of zero keeps keys
// until the dialog process deletes them (never, matching memory semantics).
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// GetOrCreate returns the stored session for the key, or atomically creates
// a fresh one at the root menu. SetNX makes create-if-absent race-free.
func (s *SessionStore) GetOrCreate(ctx context.Context, key, phone string) (*domain.Session, error) {
	redisKey := sessionKeyPrefix + key

	fresh := domain.NewSession(key, phone)
	payload, err := json.Marshal(fresh)
	if err != nil {
		return nil, err
	}

	created, err := s.client.SetNX(ctx, redisKey, payload, s.ttl).Result()
	if err != nil {
		return nil, err
	}
	if created {
		return fresh, nil
	}

	data, err := s.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Key expired between SetNX and Get; start over fresh.
			if err := s.Save(ctx, fresh); err != nil {
				return nil, err
			}
			return fresh, nil
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Save persists the session and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	session.LastTouched = time.Now()
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.ID, payload, s.ttl).Err()
}
