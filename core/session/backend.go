package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// NewBackend builds the backend selected by cfg.Driver. rdb is only used by the redis
// driver and may be nil otherwise.
func NewBackend(cfg Config, rdb redis.UniversalClient) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverMemory:
		return NewMemoryBackend(), nil
	case "", DriverFile:
		path := cfg.FilePath
		if path == "" {
			var err error
			if path, err = DefaultFilePath(); err != nil {
				return nil, fmt.Errorf("resolve session file: %w", err)
			}
		}
		return NewFileBackend(path)
	case DriverRedis:
		if rdb == nil {
			return nil, errors.New("redis session driver requires a redis client")
		}
		return NewRedisBackend(rdb, cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
