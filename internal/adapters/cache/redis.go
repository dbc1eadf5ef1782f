package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

const sessionKeyPrefix = "auth:session:"

// RedisSessionIndex maps live session tokens to user ids so the common
// resolve path skips the directory lookup by token. Entries are written
// through on login and deleted on logout/overwrite; the directory record
// remains the source of truth and stale entries are verified away by callers.
type RedisSessionIndex struct {
	client *redis.Client
}

func NewRedisSessionIndex(client *redis.Client) *RedisSessionIndex {
	return &RedisSessionIndex{client: client}
}

func (s *RedisSessionIndex) Put(ctx context.Context, token string, userID uuid.UUID) error {
	return s.client.Set(ctx, sessionKeyPrefix+token, userID.String(), 0).Err()
}

func (s *RedisSessionIndex) Get(ctx context.Context, token string) (uuid.UUID, bool, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt session index entry: %w", err)
	}
	return userID, true, nil
}

func (s *RedisSessionIndex) Del(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}
