package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Service implements the cart operations as load-mutate-save cycles over a
// Store. Each browsing session owns its cart exclusively, so mutations need
// no cross-session coordination.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a cart Service backed by the given Store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Get returns the cart for a session. A missing cart yields a fresh empty
// cart; a corrupt persisted blob is discarded and likewise yields an empty
// cart (fail-open, never fatal).
func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	c, err := s.store.Load(ctx, sessionID)
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, ErrNotFound):
		return New(sessionID, s.now().UTC()), nil
	case errors.Is(err, ErrCorruptState):
		zctx.From(ctx).Warn("Discarding corrupt cart state",
			zap.String("session_id", sessionID))
		return New(sessionID, s.now().UTC()), nil
	default:
		return nil, errors.Wrap(err, "load cart")
	}
}

// AddItem adds one unit of the given product to the session cart and persists
// the result.
func (s *Service) AddItem(ctx context.Context, sessionID string, item LineItem) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.Add(item)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem deletes the line matching productID. Removing an absent product
// succeeds without effect.
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetQuantity updates the quantity of the line matching productID; zero or
// below removes the line, unknown ids are a silent no-op.
func (s *Service) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.SetQuantity(productID, quantity)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear removes the session's cart from the store entirely. The next Get
// starts from an empty cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return errors.Wrap(err, "delete cart")
	}
	return nil
}

func (s *Service) save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, c); err != nil {
		return errors.Wrap(err, "save cart")
	}
	return nil
}
