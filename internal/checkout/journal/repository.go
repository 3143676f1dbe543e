package journal

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("journal: session not found")

// Repository persists journal entries. Save always appends.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
	// GetLatest returns the most recent entry of a session or ErrNotFound.
	GetLatest(ctx context.Context, sessionID string) (*Entry, error)
	// List returns every entry of a session, oldest first.
	List(ctx context.Context, sessionID string) ([]*Entry, error)
}
