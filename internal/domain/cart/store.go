package cart

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned by a Store when no cart exists for a session.
	ErrNotFound = errors.New("cart not found")
	// ErrCorruptState is returned by a Store when a persisted cart blob
	// cannot be decoded or carries an unknown schema version. Callers are
	// expected to fall back to an empty cart.
	ErrCorruptState = errors.New("corrupt cart state")
)

// Store defines persistence operations for session carts.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}
