package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"easyorder-core/internal/domain"
)

// RedisCartStore keeps each session's cart in Redis so it survives page
// reloads. Carts expire after the TTL; an expired or absent cart loads as
// empty, never as an error.
type RedisCartStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{Client: client, TTL: ttl}
}

func (s *RedisCartStore) key(sessionID string) string {
	return "cart:" + sessionID
}

func (s *RedisCartStore) Load(ctx context.Context, sessionID string) (domain.Cart, error) {
	raw, err := s.Client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{SessionID: sessionID}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("load cart: %w", err)
	}
	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		// A corrupt payload is unrecoverable; start the session fresh.
		return domain.Cart{SessionID: sessionID}, nil
	}
	return cart, nil
}

func (s *RedisCartStore) Save(ctx context.Context, cart domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.Client.Set(ctx, s.key(cart.SessionID), raw, s.TTL).Err()
}

func (s *RedisCartStore) Clear(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, s.key(sessionID)).Err()
}
