package ports

import "context"

// SessionStorage is a key-value string store scoped to one checkout session.
// Values are JSON text.
type SessionStorage interface {
	SetItem(ctx context.Context, key, value string) error
	// GetItem reports ok=false when the key was never written or has expired.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	// Clear drops every key of the session.
	Clear(ctx context.Context) error
}
