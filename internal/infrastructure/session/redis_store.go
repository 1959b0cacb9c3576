package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis with a sliding TTL.
// Key format: session:<token>
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps the given Redis client. ttl <= 0 uses DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (s *RedisStore) Create(ctx context.Context, p Principal) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	token := newToken()
	if err := s.client.Set(ctx, s.key(token), raw, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Principal, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("session get: %w", err)
	}
	var p Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	// Sliding expiry: a read keeps the session alive.
	_ = s.client.Expire(ctx, s.key(token), s.ttl).Err()
	return &p, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}
