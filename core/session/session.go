package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Identity is the authenticated user as returned by a login call.
type Identity struct {
	UserID string
	// Token is the opaque bearer credential attached to outgoing requests.
	Token     string
	ExpiresAt time.Time
}

// Complete reports whether all three fields are set.
func (i Identity) Complete() bool {
	return i.UserID != "" && i.Token != "" && !i.ExpiresAt.IsZero()
}

// IsExpired reports whether the identity expired before now.
func (i Identity) IsExpired(now time.Time) bool {
	return IsExpired(i.ExpiresAt, now)
}

// String implements fmt.Stringer without the token.
func (i Identity) String() string {
	return fmt.Sprintf("session.Identity{UserID: %q, Token: [REDACTED], ExpiresAt: %s}",
		i.UserID, i.ExpiresAt.Format(time.RFC3339))
}

// GoString implements fmt.GoStringer.
func (i Identity) GoString() string {
	return i.String()
}

// IsExpired reports whether expiry is strictly before now.
func IsExpired(expiry, now time.Time) bool {
	return expiry.Before(now)
}

var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseExpiry parses an expiry as sent by the API or stored by a Backend.
// RFC 3339 timestamps, bare dates and Unix seconds are accepted; values
// without a zone are taken as UTC.
func ParseExpiry(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidExpiry
	}

	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if sec, err := strconv.ParseInt(s, 10, 64); err == nil && sec > 0 {
		return time.Unix(sec, 0).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidExpiry, s)
}

// FormatExpiry is the stored representation of an expiry.
func FormatExpiry(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
