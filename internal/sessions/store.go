// Package sessions stores per-user conversation state in Redis with a
// rolling TTL. A missing session means the user is idle at the main menu.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
	"github.com/orderlyy/orderlyy-backend/pkg/redis"
)

// Session is the serialized conversation state for a single Telegram user.
// Step names the flow position; Data carries the flow-specific payload and
// is decoded by the step handler that owns it.
type Session struct {
	Step string          `json:"step"`
	Data json.RawMessage `json:"data,omitempty"`
}

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(userID string) string
}

// Store reads and writes sessions.
type Store struct {
	kv  kvStore
	ttl time.Duration
}

// NewStore binds a Redis client to session operations.
func NewStore(kv kvStore, ttl time.Duration) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Store{kv: kv, ttl: ttl}, nil
}

// Get loads the user's session. A missing or expired session returns
// (nil, nil).
func (s *Store) Get(ctx context.Context, userID int64) (*Session, error) {
	raw, err := s.kv.Get(ctx, s.key(userID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		// Corrupt state is unrecoverable; drop it so the user can restart.
		_ = s.kv.Del(ctx, s.key(userID))
		return nil, nil
	}
	return &session, nil
}

// Put stores the session and resets its TTL.
func (s *Store) Put(ctx context.Context, userID int64, session Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	if err := s.kv.Set(ctx, s.key(userID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}
	return nil
}

// PutStep stores a session at the given step with a JSON-encoded payload.
func (s *Store) PutStep(ctx context.Context, userID int64, step string, data any) error {
	session := Session{Step: step}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session data")
		}
		session.Data = raw
	}
	return s.Put(ctx, userID, session)
}

// Clear removes the user's session.
func (s *Store) Clear(ctx context.Context, userID int64) error {
	if err := s.kv.Del(ctx, s.key(userID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
	}
	return nil
}

func (s *Store) key(userID int64) string {
	return s.kv.SessionKey(strconv.FormatInt(userID, 10))
}
