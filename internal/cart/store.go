package cart

import (
	"context"
	"fmt"
	"time"

	pkgredis "github.com/micronstore/storefront/pkg/redis"
)

// DefaultTTL keeps an idle cart for two weeks.
const DefaultTTL = 14 * 24 * time.Hour

type keyedStore interface {
	pkgredis.JSONStore
	CartKey(sessionID string) string
}

// Store persists carts as JSON documents keyed by session id.
type Store struct {
	kv  keyedStore
	ttl time.Duration
}

func NewStore(kv keyedStore, ttl time.Duration) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis store required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{kv: kv, ttl: ttl}, nil
}

// Load returns the session's cart, or an empty one.
func (s *Store) Load(ctx context.Context, sessionID string) (*Cart, error) {
	c := New()
	found, err := s.kv.GetJSON(ctx, s.kv.CartKey(sessionID), c)
	if err != nil {
		return nil, err
	}
	if !found || c.Items == nil {
		c.Items = map[string]Item{}
	}
	return c, nil
}

// Save writes the cart and refreshes its TTL.
func (s *Store) Save(ctx context.Context, sessionID string, c *Cart) error {
	return s.kv.SetJSON(ctx, s.kv.CartKey(sessionID), c, s.ttl)
}

// Clear removes the cart and its coupon.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	return s.kv.Del(ctx, s.kv.CartKey(sessionID))
}
