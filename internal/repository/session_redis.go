package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/pizza-service/internal/auth"
)

type redisSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSessionStore keeps one key per live token. A positive ttl matches
// token expiry so stale keys age out; zero keeps keys until revoked.
func NewRedisSessionStore(client *redis.Client, prefix string, ttl time.Duration) auth.SessionStore {
	return &redisSessionStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *redisSessionStore) key(token string) string {
	return s.prefix + ":session:" + auth.SessionKey(token)
}

func (s *redisSessionStore) Record(ctx context.Context, token string, userID int64) error {
	return s.client.Set(ctx, s.key(token), strconv.FormatInt(userID, 10), s.ttl).Err()
}

func (s *redisSessionStore) IsActive(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisSessionStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}
