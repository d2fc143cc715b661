package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comicforge/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis with a per-key TTL, so expiry needs no
// application-side sweep.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, identity domain.Identity) (string, error) {
	id := uuid.NewString()
	payload := domain.ToSessionPayload(identity)
	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (domain.Identity, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Identity{}, domain.ErrSessionNotFound
		}
		return domain.Identity{}, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return domain.FromSessionPayload(payload)
}

func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to destroy session %s: %w", id, err)
	}
	return nil
}
