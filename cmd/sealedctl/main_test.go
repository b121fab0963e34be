package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/sealedapi/api"
	"github.com/dmitrymomot/sealedapi/core/envelope"
	"github.com/dmitrymomot/sealedapi/core/logger"
	"github.com/dmitrymomot/sealedapi/internal/mockapi"
)

const testSecret = "cli-secret"

func TestMain(m *testing.M) {
	// Configuration is cached per type on first load, so every test shares one environment.
	os.Setenv("SECRET_KEY", testSecret)
	os.Setenv("SESSION_DRIVER", "memory")
	os.Exit(m.Run())
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(newApp(strings.NewReader(stdin), &out, &errOut))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newMockServer(t *testing.T) string {
	t.Helper()

	h, err := mockapi.New(mockapi.Config{
		Cipher:     envelope.NewCipher(testSecret),
		SigningKey: []byte("cli-signing-key"),
		Logger:     logger.Nop(),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL + mockapi.Prefix
}

func TestEncryptDecrypt(t *testing.T) {
	t.Parallel()

	sealed, err := run(t, "", "encrypt", `{"email":"user@example.com"}`)
	require.NoError(t, err)
	sealed = strings.TrimSpace(sealed)
	assert.NotContains(t, sealed, "user@example.com")

	plain, err := run(t, "", "decrypt", sealed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"user@example.com"}`, plain)
}

func TestEncryptDecrypt_Stdin(t *testing.T) {
	t.Parallel()

	wrapped, err := run(t, `{"page":1}`+"\n", "encrypt", "--wrap")
	require.NoError(t, err)
	assert.Contains(t, wrapped, `"encryptedPayload"`)

	plain, err := run(t, wrapped, "decrypt")
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":1}`, plain)
}

func TestEncrypt_RejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := run(t, "", "encrypt", "not json")
	assert.ErrorIs(t, err, envelope.ErrInvalidPayload)
}

func TestDecrypt_WrongInput(t *testing.T) {
	t.Parallel()

	_, err := run(t, "", "decrypt", "bm90IGFuIGVudmVsb3Bl")
	assert.ErrorIs(t, err, envelope.ErrDecryptionFailed)
}

func TestUnwrapEnvelope(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", unwrapEnvelope([]byte(`{"encryptedPayload":"abc"}`)))
	assert.Equal(t, "def", unwrapEnvelope([]byte(`{"response":"def"}`)))
	assert.Equal(t, "ghi", unwrapEnvelope([]byte(`"ghi"`)))
	assert.Equal(t, "jkl", unwrapEnvelope([]byte("jkl\n")))
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	baseURL := newMockServer(t)
	sessionFile := filepath.Join(t.TempDir(), "session.json")
	common := []string{"--base-url", baseURL, "--session-file", sessionFile}

	out, err := run(t, "", append(common, "whoami")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")

	out, err = run(t, "", append(common, "login", "-e", "user@example.com", "-p", mockapi.DefaultPassword, "-o", "yaml")...)
	require.NoError(t, err)
	var res api.LoginResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, mockapi.UserID("user@example.com"), res.UserID)
	assert.NotEmpty(t, res.ExpiryDate)

	out, err = run(t, "", append(common, "whoami", "-o", "json")...)
	require.NoError(t, err)
	assert.Contains(t, out, `"loggedIn": true`)
	assert.Contains(t, out, res.UserID)

	out, err = run(t, "", append(common, "txns", "--page-size", "5", "--status", "complete")...)
	require.NoError(t, err)
	assert.Contains(t, out, "COMPLETE")
	assert.Contains(t, out, "8 total, page 1/2, 1 active filters")

	out, err = run(t, "", append(common, "txns", "-o", "yaml", "--page-size", "3")...)
	require.NoError(t, err)
	var page api.Page
	require.NoError(t, yaml.Unmarshal([]byte(out), &page))
	assert.Equal(t, 40, page.TotalCount)
	assert.Len(t, page.Transactions, 3)

	out, err = run(t, "", append(common, "logout")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	out, err = run(t, "", append(common, "whoami")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	baseURL := newMockServer(t)
	sessionFile := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, "", "--base-url", baseURL, "--session-file", sessionFile, "login", "-e", "user@example.com", "-p", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestTxns_BadDates(t *testing.T) {
	t.Parallel()

	_, err := run(t, "", "--base-url", "http://127.0.0.1:1", "txns", "--from", "2024-01-01", "--to", "02-01-2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--from")
}

func TestMetricsFile(t *testing.T) {
	t.Parallel()

	baseURL := newMockServer(t)
	dir := t.TempDir()
	metrics := filepath.Join(dir, "sealedctl.prom")

	_, err := run(t, "", "--base-url", baseURL, "--session-file", filepath.Join(dir, "session.json"),
		"--metrics-file", metrics,
		"login", "-e", "user@example.com", "-p", mockapi.DefaultPassword)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sealedapi_transport_envelopes_total")
	assert.Contains(t, string(data), `event="saved"`)
}

func TestUnknownOutputFormat(t *testing.T) {
	t.Parallel()

	_, err := run(t, "", "-o", "xml", "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}
