package cache

import (
	"context"
	"time"

	"github.com/jcmexdev/checkout-engine/internal/checkout/core/ports"
)

var _ ports.SessionStorage = (*SessionStorage)(nil)

// SessionStorage scopes a Cache to one checkout session. Keys are stored as
// "<service>:<sessionID>:<key>".
type SessionStorage struct {
	cache     Cache
	sessionID string
	ttl       time.Duration
}

func NewSessionStorage(c Cache, sessionID string, ttl time.Duration) *SessionStorage {
	return &SessionStorage{cache: c, sessionID: sessionID, ttl: ttl}
}

func (s *SessionStorage) SetItem(ctx context.Context, key, value string) error {
	return s.cache.Set(ctx, s.cache.GenerateKey(s.sessionID, key), value, s.ttl)
}

func (s *SessionStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.cache.Get(ctx, s.cache.GenerateKey(s.sessionID, key))
}

func (s *SessionStorage) Clear(ctx context.Context) error {
	return s.cache.DeletePrefix(ctx, s.cache.GenerateKey(s.sessionID, ""))
}
