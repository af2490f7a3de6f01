package usedstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const usedKeyPrefix = "insightpress:used:"

// RedisStore tracks used URLs as TTL'd redis keys; expiry replaces explicit
// retention pruning.
type RedisStore struct {
	rdb       *redis.Client
	retention time.Duration
}

// NewRedisStore wraps an existing redis client.
func NewRedisStore(rdb *redis.Client, retention time.Duration) *RedisStore {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, retention: retention}
}

func usedKey(url string) string {
	return usedKeyPrefix + url
}

func (s *RedisStore) IsUsed(ctx context.Context, url string) (bool, error) {
	_, err := s.rdb.Get(ctx, usedKey(url)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) MarkUsed(ctx context.Context, urls []string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	for _, u := range urls {
		if err := s.rdb.Set(ctx, usedKey(u), now, s.retention).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	var cursor uint64
	count := 0
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, usedKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, err
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, usedKeyPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
