package session

import (
	"log/slog"
	"time"
)

// Entry names used by Manager. They match the cookie names of the browser client.
const (
	DefaultIDKey     = "id"
	DefaultTokenKey  = "token"
	DefaultExpiryKey = "expiryDate"
)

// Drivers accepted by Config.Driver.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config provides environment-based configuration for the session backend.
type Config struct {
	Driver    string `env:"SESSION_DRIVER" envDefault:"file"`
	FilePath  string `env:"SESSION_FILE" envDefault:""`
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"sealedapi:session:"`
}

// DefaultConfig returns a Config with defaults.
func DefaultConfig() Config {
	return Config{
		Driver:    DriverFile,
		KeyPrefix: defaultRedisPrefix,
	}
}

// Option is a functional option for configuring the session manager.
type Option func(*Manager)

// WithKeys overrides the entry names. Empty values keep the defaults.
func WithKeys(id, token, expiry string) Option {
	return func(m *Manager) {
		if id != "" {
			m.idKey = id
		}
		if token != "" {
			m.tokenKey = token
		}
		if expiry != "" {
			m.expiryKey = expiry
		}
	}
}

// WithClock sets the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}
