package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sealedapi/core/server"
)

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing address", func(t *testing.T) {
		t.Parallel()
		_, err := server.NewFromConfig(server.Config{})
		assert.ErrorIs(t, err, server.ErrMissingAddress)
	})

	t.Run("missing key pair", func(t *testing.T) {
		t.Parallel()
		cfg := server.DefaultConfig()
		cfg.TLSCertFile = "/nonexistent/cert.pem"
		cfg.TLSKeyFile = "/nonexistent/key.pem"
		_, err := server.NewFromConfig(cfg)
		assert.ErrorIs(t, err, server.ErrFailedLoadCert)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		srv, err := server.NewFromConfig(server.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, ":8080", srv.Addr())
	})
}

func TestServer_RunAndShutdown(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, handler)()
	}()

	var addr string
	require.Eventually(t, func() bool {
		addr = srv.Addr()
		return addr != "127.0.0.1:0"
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.NoError(t, srv.Stop())
}

func TestServer_StartTwice(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() { _ = srv.Start(ctx, http.NotFoundHandler()) }()
	require.Eventually(t, func() bool { return srv.Addr() != "127.0.0.1:0" }, 2*time.Second, 10*time.Millisecond)

	err := srv.Start(ctx, http.NotFoundHandler())
	assert.ErrorIs(t, err, server.ErrServerAlreadyRunning)
	assert.NoError(t, srv.Stop())
}
