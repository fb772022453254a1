package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// savePrefix namespaces save keys in a shared Redis instance.
const savePrefix = "stardream:save:"

// RedisStore implements SaveStore on Redis. Saves carry no TTL; a
// playthrough stays loadable until it is reset.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ SaveStore = (*RedisStore)(nil)

func NewRedisStore(addr, password string, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		logger: logger,
	}
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, savePrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get save: %w", err)
	}
	return val, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, savePrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	return nil
}

func (r *RedisStore) Del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, savePrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}
