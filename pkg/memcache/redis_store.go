package mem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "eezlegal:state:"

// RedisStore shares state values between replicas.
type RedisStore struct {
	Db *redis.Client
}

func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	const op = "mem.NewRedisStore"
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db := redis.NewClient(opts)
	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisStore{Db: db}, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := s.Db.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("mem.Set: %w", err)
	}
	return nil
}

func (s *RedisStore) Consume(ctx context.Context, key string) (string, bool, error) {
	val, err := s.Db.GetDel(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("mem.Consume: %w", err)
	}
	return val, true, nil
}

func (s *RedisStore) Close() error {
	return s.Db.Close()
}
