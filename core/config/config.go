package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig is returned when environment variables cannot be parsed into the target.
var ErrParsingConfig = errors.New("failed to parse config")

var (
	dotenvOnce sync.Once

	mu    sync.Mutex
	cache = make(map[reflect.Type]any)
)

// Load fills cfg from the environment. The first call for a type parses the environment;
// later calls copy the cached value. A .env file in the working directory is loaded
// once, without overriding variables that are already set.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	typ := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[typ]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParsingConfig, fmt.Errorf("%s: %w", typ, err))
	}
	cache[typ] = *cfg
	return nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// LoadFiles loads the given dotenv files into the process environment. Variables that
// are already set win. Use it before the first Load to point at a non-default file.
func LoadFiles(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}
