// Package redis implements the session cart store on top of Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/ormolu/antiq-storefront/internal/domain/cart"
)

const keyPrefix = "cart:"

var _ cart.Store = (*CartStore)(nil)

// CartStore persists carts as JSON blobs keyed by session id. Writes are
// write-through with a TTL so abandoned carts expire on their own.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStore creates a Redis-backed cart store. Carts are kept alive for
// ttl past their last write.
func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	return &CartStore{client: client, ttl: ttl}
}

// NewClient builds a Redis client from a URL (redis://...) and verifies
// connectivity.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// Load retrieves the cart for a session. A missing key yields
// cart.ErrNotFound. A blob that fails to decode or carries an unknown schema
// version is deleted best-effort and reported as cart.ErrCorruptState so the
// caller can start from an empty cart.
func (s *CartStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	key := keyPrefix + sessionID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cart.ErrNotFound
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		s.client.Del(ctx, key)
		return nil, errors.Wrap(cart.ErrCorruptState, err.Error())
	}
	if c.SchemaVersion != cart.SchemaVersion {
		s.client.Del(ctx, key)
		return nil, errors.Wrapf(cart.ErrCorruptState,
			"schema version %d", c.SchemaVersion)
	}
	if c.Items == nil {
		c.Items = []cart.LineItem{}
	}
	return &c, nil
}

// Save persists the cart with the configured TTL.
func (s *CartStore) Save(ctx context.Context, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+c.SessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

// Delete removes the cart for a session. Deleting an absent cart succeeds.
func (s *CartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
