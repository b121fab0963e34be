package transport

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/dmitrymomot/sealedapi/core/logger"
	"github.com/dmitrymomot/sealedapi/core/session"
)

// loginData is the data object of a successful login reply.
type loginData struct {
	UserID     flexString `json:"userId"`
	Token      string     `json:"token"`
	ExpiryDate flexString `json:"expiryDate"`
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// identityFromReply extracts the session identity from a decrypted login reply.
// ok is false when the reply carries no user ID or token.
func (t *Transport) identityFromReply(plain []byte, log *slog.Logger) (session.Identity, bool) {
	var reply struct {
		Data *loginData `json:"data"`
	}
	if err := json.Unmarshal(plain, &reply); err != nil || reply.Data == nil {
		return session.Identity{}, false
	}

	data := reply.Data
	if data.UserID == "" || data.Token == "" {
		return session.Identity{}, false
	}

	return session.Identity{
		UserID:    string(data.UserID),
		Token:     data.Token,
		ExpiresAt: t.resolveExpiry(string(data.ExpiryDate), data.Token, log),
	}, true
}

// resolveExpiry picks the session expiry: the reply's expiryDate, then the token's exp
// claim, then now plus the default TTL. Numeric expiryDate values in milliseconds are
// accepted.
func (t *Transport) resolveExpiry(raw, token string, log *slog.Logger) time.Time {
	if raw != "" {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms > 1e12 {
			return time.UnixMilli(ms).UTC()
		}
		exp, err := session.ParseExpiry(raw)
		if err == nil {
			return exp
		}
		log.Debug("login reply expiry unreadable", logger.Error(err))
	}

	if exp, ok := session.TokenExpiry(token); ok {
		return exp
	}

	return t.now().Add(t.defaultTTL)
}
