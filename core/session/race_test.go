package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sealedapi/core/session"
)

func TestManager_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := newManager(session.NewMemoryBackend(), testSecret)
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(3)
		go func() {
			defer wg.Done()
			assert.NoError(t, m.Save(ctx, session.Identity{
				UserID:    fmt.Sprintf("u%d", i),
				Token:     fmt.Sprintf("tok%d", i),
				ExpiresAt: exp,
			}))
		}()
		go func() {
			defer wg.Done()
			id, err := m.Load(ctx)
			if err == nil {
				// Entries are written together, so a loaded identity is never mixed.
				assert.Equal(t, "tok"+id.UserID[1:], id.Token)
			}
		}()
		go func() {
			defer wg.Done()
			if i%5 == 0 {
				assert.NoError(t, m.Clear(ctx))
			}
		}()
	}
	wg.Wait()

	require.NoError(t, m.Save(ctx, session.Identity{UserID: "final", Token: "tokfinal", ExpiresAt: exp}))
	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "final", got.UserID)
}
