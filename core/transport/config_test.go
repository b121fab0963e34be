package transport_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sealedapi/core/transport"
)

func TestConfig_FromEnvironment(t *testing.T) {
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("API_SKIP_ENDPOINTS", "/files/,/exports/")
	t.Setenv("ENCRYPT_FAILURE_POLICY", "fail")
	t.Setenv("SESSION_DEFAULT_TTL", "2h")

	var cfg transport.Config
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, "from-env", cfg.SecretKey)
	assert.Equal(t, "https://qa-api.endl.xyz/api/v1", cfg.BaseURL)
	assert.Equal(t, transport.DefaultLoginPath, cfg.LoginPath)
	assert.Equal(t, transport.DefaultLogoutPath, cfg.LogoutPath)
	assert.Equal(t, []string{"/files/", "/exports/"}, cfg.SkipEndpoints)
	assert.Equal(t, "fail", cfg.EncryptFailurePolicy)
	assert.Equal(t, "legacy", cfg.KDF)
	assert.Equal(t, 2*time.Hour, cfg.SessionDefaultTTL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestConfig_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	var fromEnv transport.Config
	require.NoError(t, env.Parse(&fromEnv))
	assert.Equal(t, transport.DefaultConfig(), fromEnv)
}

func TestConfig_StringHidesSecret(t *testing.T) {
	t.Parallel()

	cfg := transport.DefaultConfig()
	cfg.SecretKey = "super-secret-value"

	for _, s := range []string{cfg.String(), fmt.Sprintf("%v", cfg), fmt.Sprintf("%+v", cfg), fmt.Sprintf("%#v", cfg)} {
		assert.NotContains(t, s, "super-secret-value")
		assert.Contains(t, s, "[REDACTED]")
	}

	assert.Contains(t, transport.DefaultConfig().String(), "<unset>")
}

func TestParseFailurePolicy(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]transport.FailurePolicy{
		"":          transport.PolicyDegrade,
		"degrade":   transport.PolicyDegrade,
		" FAIL ":    transport.PolicyFail,
		"Degrade\n": transport.PolicyDegrade,
	} {
		got, err := transport.ParseFailurePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := transport.ParseFailurePolicy("retry")
	assert.ErrorIs(t, err, transport.ErrUnknownPolicy)
}
