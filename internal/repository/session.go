package repository

import (
	"context"

	"quickride/internal/domain"
)

// SessionStore defines the persistence operations for dialog sessions.
type SessionStore interface {
	// GetOrCreate returns the session for the key, creating one at the
	// root menu if absent or expired. Get-or-create is atomic: concurrent
	// callers never observe a half-initialized session.
	GetOrCreate(ctx context.Context, key, phone string) (*domain.Session, error)

	// Save persists the session after a dialog turn.
	Save(ctx context.Context, session *domain.Session) error
}

// SessionLocker serializes dialog turns per session key. Two concurrent
// callbacks for the same key run one at a time; distinct keys run in
// parallel.
type SessionLocker interface {
	// Lock acquires the lock for the key and returns its release func.
	Lock(ctx context.Context, key string) (func(), error)
}
