package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/sealedapi/core/envelope"
	"github.com/dmitrymomot/sealedapi/core/logger"
	"github.com/dmitrymomot/sealedapi/pkg/passphrase"
)

// Manager stores one Identity in a Backend with the token encrypted at rest.
// It implements Store and is safe for concurrent use.
type Manager struct {
	backend    Backend
	passphrase string

	idKey     string
	tokenKey  string
	expiryKey string

	now func() time.Time
	log *slog.Logger

	mu sync.Mutex
}

var _ Store = (*Manager)(nil)

// NewManager creates a session manager. secret is the shared secret; it is trimmed and
// used directly as the token passphrase. An empty secret makes Save fail with
// envelope.ErrMissingSecret and Load report ErrNotFound.
func NewManager(backend Backend, secret string, opts ...Option) *Manager {
	m := &Manager{
		backend:    backend,
		passphrase: strings.TrimSpace(secret),
		idKey:      DefaultIDKey,
		tokenKey:   DefaultTokenKey,
		expiryKey:  DefaultExpiryKey,
		now:        time.Now,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Save encrypts the token and writes all three entries, replacing any previous identity.
func (m *Manager) Save(ctx context.Context, id Identity) error {
	if !id.Complete() {
		return ErrIncompleteIdentity
	}
	if m.passphrase == "" {
		return envelope.ErrMissingSecret
	}

	token, err := passphrase.Encrypt(id.Token, m.passphrase)
	if err != nil {
		return errors.Join(ErrSaveSession, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.backend.Set(ctx, map[string]string{
		m.idKey:     id.UserID,
		m.tokenKey:  token,
		m.expiryKey: FormatExpiry(id.ExpiresAt),
	}); err != nil {
		return errors.Join(ErrSaveSession, err)
	}

	return nil
}

// Load returns the stored identity. See the package documentation for failure semantics.
func (m *Manager) Load(ctx context.Context) (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.backend.Get(ctx, m.idKey, m.tokenKey, m.expiryKey)
	if err != nil {
		return Identity{}, errors.Join(ErrLoadSession, err)
	}
	if len(entries) == 0 {
		return Identity{}, ErrNotFound
	}

	userID, encToken, rawExpiry := entries[m.idKey], entries[m.tokenKey], entries[m.expiryKey]
	expiry, expiryErr := ParseExpiry(rawExpiry)
	if userID == "" || encToken == "" || expiryErr != nil {
		m.log.WarnContext(ctx, "removing partial session",
			logger.Component("session"),
			logger.Error(expiryErr),
		)
		if err := m.clear(ctx); err != nil {
			return Identity{}, err
		}
		return Identity{}, ErrNotFound
	}

	if IsExpired(expiry, m.now()) {
		if err := m.clear(ctx); err != nil {
			return Identity{}, err
		}
		return Identity{}, ErrExpired
	}

	if m.passphrase == "" {
		return Identity{}, ErrNotFound
	}

	token, err := passphrase.Decrypt(encToken, m.passphrase)
	if err != nil {
		m.log.DebugContext(ctx, "stored token unreadable",
			logger.Component("session"),
			logger.Error(errors.Join(ErrTokenDecode, err)),
		)
		return Identity{}, ErrNotFound
	}

	return Identity{UserID: userID, Token: token, ExpiresAt: expiry}, nil
}

// Clear removes all three entries. It is idempotent.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clear(ctx)
}

func (m *Manager) clear(ctx context.Context) error {
	if err := m.backend.Delete(ctx, m.idKey, m.tokenKey, m.expiryKey); err != nil {
		return errors.Join(ErrDeleteSession, err)
	}
	return nil
}
