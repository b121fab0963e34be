package session_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sealedapi/core/session"
)

func TestParseExpiry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", "2099-01-01T00:00:00Z", time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"rfc3339 with millis", "2030-06-15T10:30:00.123Z", time.Date(2030, 6, 15, 10, 30, 0, 123_000_000, time.UTC)},
		{"rfc3339 with offset", "2030-06-15T12:30:00+02:00", time.Date(2030, 6, 15, 10, 30, 0, 0, time.UTC)},
		{"no zone", "2030-06-15T10:30:00", time.Date(2030, 6, 15, 10, 30, 0, 0, time.UTC)},
		{"space separated", "2030-06-15 10:30:00", time.Date(2030, 6, 15, 10, 30, 0, 0, time.UTC)},
		{"date only", "2099-01-01", time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"unix seconds", "1700000000", time.Unix(1700000000, 0)},
		{"surrounding spaces", "  2099-01-01  ", time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := session.ParseExpiry(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseExpiry_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "tomorrow", "01-01-2099", "-5", "0"} {
		t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
			t.Parallel()
			_, err := session.ParseExpiry(in)
			assert.ErrorIs(t, err, session.ErrInvalidExpiry)
		})
	}
}

func TestFormatExpiry_RoundTrip(t *testing.T) {
	t.Parallel()

	in := time.Date(2031, 3, 4, 5, 6, 7, 8, time.FixedZone("X", 3600))
	got, err := session.ParseExpiry(session.FormatExpiry(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(got))
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, session.IsExpired(now.Add(-time.Second), now))
	assert.False(t, session.IsExpired(now, now), "expiry equal to now is still valid")
	assert.False(t, session.IsExpired(now.Add(time.Second), now))
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	exp := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("complete", func(t *testing.T) {
		t.Parallel()
		assert.True(t, session.Identity{UserID: "u1", Token: "tok1", ExpiresAt: exp}.Complete())
		assert.False(t, session.Identity{Token: "tok1", ExpiresAt: exp}.Complete())
		assert.False(t, session.Identity{UserID: "u1", ExpiresAt: exp}.Complete())
		assert.False(t, session.Identity{UserID: "u1", Token: "tok1"}.Complete())
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		id := session.Identity{UserID: "u1", Token: "tok1", ExpiresAt: exp}
		assert.False(t, id.IsExpired(time.Now()))
		assert.True(t, id.IsExpired(exp.Add(time.Nanosecond)))
	})

	t.Run("string hides token", func(t *testing.T) {
		t.Parallel()
		id := session.Identity{UserID: "u1", Token: "super-secret-token", ExpiresAt: exp}
		for _, s := range []string{id.String(), fmt.Sprintf("%v", id), fmt.Sprintf("%#v", id)} {
			assert.NotContains(t, s, "super-secret-token")
			assert.Contains(t, s, "u1")
			assert.Contains(t, s, "[REDACTED]")
		}
	})
}
