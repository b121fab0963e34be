package session

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "sealedapi:session:"

// RedisBackend stores entries as prefixed Redis string keys. Writes run in a
// MULTI/EXEC transaction so the three session entries change together.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisBackend creates a backend on client. An empty prefix selects the default.
func NewRedisBackend(client redis.UniversalClient, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisBackend{client: client, prefix: prefix}
}

// Get implements Backend.
func (b *RedisBackend) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}

	vals, err := b.client.MGet(ctx, b.keys(keys)...).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(keys))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

// Set implements Backend.
func (b *RedisBackend) Set(ctx context.Context, entries map[string]string) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, b.prefix+k, v, 0)
		}
		return nil
	})
	return err
}

// Delete implements Backend.
func (b *RedisBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return b.client.Del(ctx, b.keys(keys)...).Err()
}

func (b *RedisBackend) keys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = b.prefix + k
	}
	return out
}
