package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/sealedapi/core/envelope"
	"github.com/dmitrymomot/sealedapi/core/session"
	"github.com/dmitrymomot/sealedapi/core/skiplist"
)

const maxErrorBody = 512

// Client calls the API through a Transport. Paths are relative to the base URL.
type Client struct {
	http      *http.Client
	baseURL   string
	transport *Transport
}

// NewClient builds a Client from cfg. opts are applied to the Transport after the
// settings derived from cfg, so they take precedence.
func NewClient(cfg Config, store session.Store, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}

	kdf, err := envelope.ParseKDF(cfg.KDF)
	if err != nil {
		return nil, err
	}
	policy, err := ParseFailurePolicy(cfg.EncryptFailurePolicy)
	if err != nil {
		return nil, err
	}

	tOpts := []Option{
		WithSkipList(skiplist.Default.With(cfg.SkipEndpoints...)),
		WithLoginPath(cfg.LoginPath),
		WithLogoutPath(cfg.LogoutPath),
		WithFailurePolicy(policy),
		WithDefaultTTL(cfg.SessionDefaultTTL),
	}
	t := New(envelope.NewCipher(cfg.SecretKey, envelope.WithKDF(kdf)), store, append(tOpts, opts...)...)
	if cfg.RateLimit > 0 {
		t.base = NewRateLimiter(t.base, cfg.RateLimit, cfg.RateBurst)
	}

	return &Client{
		http:      &http.Client{Transport: t, Timeout: cfg.Timeout},
		baseURL:   strings.TrimSuffix(base.String(), "/"),
		transport: t,
	}, nil
}

// HTTPClient returns the underlying client, for callers that need raw access.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Transport returns the pipeline used by the client.
func (c *Client) Transport() *Transport {
	return c.transport
}

// URL resolves path against the base URL.
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// Post sends in as JSON and decodes the reply data into out. in and out may be nil.
func (c *Client) Post(ctx context.Context, path string, in, out any) (*Reply, error) {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

// Get calls path and decodes the reply data into out.
func (c *Client) Get(ctx context.Context, path string, out any) (*Reply, error) {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Do performs a call. A reply that is not successful is returned together with an
// *APIError.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) (*Reply, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}

	reply := &Reply{}
	if err := json.Unmarshal(raw, reply); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &APIError{HTTPStatus: resp.StatusCode, Message: truncate(string(raw), maxErrorBody)}
		}
		return nil, errors.Join(ErrInvalidReply, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !reply.OK() {
		return reply, &APIError{
			HTTPStatus: resp.StatusCode,
			Code:       reply.Code,
			Status:     reply.Status,
			Message:    reply.Message,
			Errors:     reply.Errors,
		}
	}

	if out != nil {
		if err := reply.Decode(out); err != nil {
			return reply, err
		}
	}
	return reply, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
