package transport

import (
	"fmt"
	"strings"
	"time"
)

// FailurePolicy decides what happens when a request body cannot be encrypted.
type FailurePolicy string

const (
	// PolicyDegrade logs the failure and sends the body unencrypted.
	PolicyDegrade FailurePolicy = "degrade"
	// PolicyFail aborts the call with the encryption error.
	PolicyFail FailurePolicy = "fail"
)

// ParseFailurePolicy converts a configuration value. Empty selects PolicyDegrade.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyDegrade:
		return PolicyDegrade, nil
	case PolicyFail:
		return PolicyFail, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Default endpoint paths, relative to the API base URL.
const (
	DefaultLoginPath  = "/user/login"
	DefaultLogoutPath = "/user/logout"
)

// Config holds the client settings, loaded from the environment with core/config.
// SecretKey is not required at load time; a missing secret is reported by the first
// call as envelope.ErrMissingSecret.
type Config struct {
	SecretKey            string        `env:"SECRET_KEY"`
	BaseURL              string        `env:"API_BASE_URL" envDefault:"https://qa-api.endl.xyz/api/v1"`
	LoginPath            string        `env:"API_LOGIN_PATH" envDefault:"/user/login"`
	LogoutPath           string        `env:"API_LOGOUT_PATH" envDefault:"/user/logout"`
	SkipEndpoints        []string      `env:"API_SKIP_ENDPOINTS" envSeparator:","`
	KDF                  string        `env:"ENVELOPE_KDF" envDefault:"legacy"`
	EncryptFailurePolicy string        `env:"ENCRYPT_FAILURE_POLICY" envDefault:"degrade"`
	Timeout              time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	RateLimit            float64       `env:"API_RATE_LIMIT" envDefault:"0"`
	RateBurst            int           `env:"API_RATE_BURST" envDefault:"1"`
	SessionDefaultTTL    time.Duration `env:"SESSION_DEFAULT_TTL" envDefault:"24h"`
}

// DefaultConfig returns a Config with defaults and no secret.
func DefaultConfig() Config {
	return Config{
		BaseURL:              "https://qa-api.endl.xyz/api/v1",
		LoginPath:            DefaultLoginPath,
		LogoutPath:           DefaultLogoutPath,
		KDF:                  "legacy",
		EncryptFailurePolicy: string(PolicyDegrade),
		Timeout:              30 * time.Second,
		RateBurst:            1,
		SessionDefaultTTL:    24 * time.Hour,
	}
}

// String implements fmt.Stringer without the secret.
func (c Config) String() string {
	secret := "<unset>"
	if c.SecretKey != "" {
		secret = "[REDACTED]"
	}
	return fmt.Sprintf("transport.Config{BaseURL: %q, SecretKey: %s, KDF: %q, EncryptFailurePolicy: %q, Timeout: %s}",
		c.BaseURL, secret, c.KDF, c.EncryptFailurePolicy, c.Timeout)
}

// GoString implements fmt.GoStringer.
func (c Config) GoString() string {
	return c.String()
}
