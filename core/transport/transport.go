package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/sealedapi/core/envelope"
	"github.com/dmitrymomot/sealedapi/core/logger"
	"github.com/dmitrymomot/sealedapi/core/session"
	"github.com/dmitrymomot/sealedapi/core/skiplist"
)

// RequestIDHeader carries the per-call request ID.
const RequestIDHeader = "X-Request-ID"

const (
	phaseRequest  = "request"
	phaseResponse = "response"
)

// Transport is an http.RoundTripper that seals request bodies into envelopes, attaches
// the session bearer token and opens enveloped replies. Login replies update the
// session store; logout calls clear it. Transport is safe for concurrent use.
type Transport struct {
	base   http.RoundTripper
	cipher *envelope.Cipher
	store  session.Store

	skip       skiplist.List
	loginPath  string
	logoutPath string
	policy     FailurePolicy
	defaultTTL time.Duration

	now          func() time.Time
	newRequestID func() string
	log          *slog.Logger
	metrics      *Metrics
}

var _ http.RoundTripper = (*Transport)(nil)

// Option configures a Transport.
type Option func(*Transport)

// WithBase sets the underlying round tripper. Default is http.DefaultTransport.
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) {
		if rt != nil {
			t.base = rt
		}
	}
}

// WithSkipList replaces the list of path substrings that bypass encryption.
func WithSkipList(list skiplist.List) Option {
	return func(t *Transport) {
		t.skip = list
	}
}

// WithLoginPath sets the login endpoint path. Empty keeps the default.
func WithLoginPath(path string) Option {
	return func(t *Transport) {
		if path != "" {
			t.loginPath = path
		}
	}
}

// WithLogoutPath sets the logout endpoint path. Empty keeps the default.
func WithLogoutPath(path string) Option {
	return func(t *Transport) {
		if path != "" {
			t.logoutPath = path
		}
	}
}

// WithFailurePolicy sets the request encryption failure policy. Default is PolicyDegrade.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(t *Transport) {
		if p != "" {
			t.policy = p
		}
	}
}

// WithDefaultTTL sets the session lifetime used when a login reply carries no expiry
// and the token has no exp claim. Default is 24h.
func WithDefaultTTL(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.defaultTTL = d
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Transport) {
		if now != nil {
			t.now = now
		}
	}
}

// WithRequestIDGenerator sets the request ID generator. Default is UUID v4.
func WithRequestIDGenerator(fn func() string) Option {
	return func(t *Transport) {
		if fn != nil {
			t.newRequestID = fn
		}
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(t *Transport) {
		if log != nil {
			t.log = log
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(t *Transport) {
		t.metrics = m
	}
}

// New creates a Transport. store may be nil, in which case no token is attached and
// login or logout replies change nothing.
func New(cipher *envelope.Cipher, store session.Store, opts ...Option) *Transport {
	t := &Transport{
		base:         http.DefaultTransport,
		cipher:       cipher,
		store:        store,
		skip:         skiplist.Default,
		loginPath:    DefaultLoginPath,
		logoutPath:   DefaultLogoutPath,
		policy:       PolicyDegrade,
		defaultTTL:   24 * time.Hour,
		now:          time.Now,
		newRequestID: func() string { return uuid.New().String() },
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if !t.cipher.Configured() {
		closeBody(req)
		return nil, envelope.ErrMissingSecret
	}

	ctx := req.Context()
	path := req.URL.Path
	skip := t.skip.Match(path)

	out := req.Clone(ctx)
	requestID := out.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = t.newRequestID()
		out.Header.Set(RequestIDHeader, requestID)
	}

	log := t.log.With(
		logger.Component("transport"),
		logger.Method(req.Method),
		logger.Path(path),
		logger.RequestID(requestID),
	)

	if err := t.sealRequest(out, skip, log); err != nil {
		t.metrics.observe("error", time.Since(start))
		return nil, err
	}
	t.attachIdentity(out, log)

	resp, err := t.base.RoundTrip(out)
	if matchEndpoint(path, t.logoutPath) {
		t.clearSession(out, log)
	}
	if err != nil {
		t.metrics.observe("error", time.Since(start))
		return nil, err
	}

	resp, err = t.openResponse(resp, out, skip, log)
	if err != nil {
		t.metrics.observe("error", time.Since(start))
		return nil, err
	}

	t.metrics.observe("ok", time.Since(start))
	log.DebugContext(ctx, "call completed",
		logger.StatusCode(resp.StatusCode),
		logger.Skipped(skip),
		logger.Duration(time.Since(start)),
	)
	return resp, nil
}

// sealRequest replaces a JSON body with {"encryptedPayload": ...}.
func (t *Transport) sealRequest(req *http.Request, skip bool, log *slog.Logger) error {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}
	if skip {
		t.metrics.envelope(phaseRequest, resultSkipped)
		return nil
	}

	body, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		setRequestBody(req, body)
		return nil
	}

	sealed, err := t.seal(body)
	if err != nil {
		if t.policy == PolicyFail {
			t.metrics.envelope(phaseRequest, resultFailed)
			return err
		}
		t.metrics.envelope(phaseRequest, resultDegraded)
		log.WarnContext(req.Context(), "request encryption failed, sending plain body",
			logger.Phase(phaseRequest),
			logger.Error(err),
		)
		setRequestBody(req, body)
		return nil
	}

	payload, err := json.Marshal(envelope.RequestEnvelope{EncryptedPayload: sealed})
	if err != nil {
		return errors.Join(envelope.ErrEncryptionFailed, err)
	}
	setRequestBody(req, payload)
	req.Header.Set("Content-Type", "application/json")
	t.metrics.envelope(phaseRequest, resultSealed)
	return nil
}

func (t *Transport) seal(body []byte) (string, error) {
	if !json.Valid(body) {
		return "", errors.Join(envelope.ErrEncryptionFailed, envelope.ErrInvalidPayload)
	}
	return t.cipher.SealJSON(json.RawMessage(body))
}

func (t *Transport) attachIdentity(req *http.Request, log *slog.Logger) {
	if t.store == nil {
		return
	}

	id, err := t.store.Load(req.Context())
	switch {
	case err == nil:
		req.Header.Set("Authorization", "Bearer "+id.Token)
		req.Header.Set("Content-Type", "application/json")
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
	default:
		log.WarnContext(req.Context(), "session unavailable, sending request without token",
			logger.Phase(phaseRequest),
			logger.Error(err),
		)
	}
}

// openResponse decrypts a {"response": ...} body in place. Bodies without a response
// envelope are returned unchanged.
func (t *Transport) openResponse(resp *http.Response, req *http.Request, skip bool, log *slog.Logger) (*http.Response, error) {
	if !t.cipher.Configured() {
		_ = resp.Body.Close()
		return nil, envelope.ErrMissingSecret
	}
	if skip {
		t.metrics.envelope(phaseResponse, resultSkipped)
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var env envelope.ResponseEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Response == "" {
		t.metrics.envelope(phaseResponse, resultPassthrough)
		setResponseBody(resp, body)
		return resp, nil
	}

	plain, err := t.cipher.Open(env.Response)
	if err == nil && !json.Valid(plain) {
		err = errors.Join(envelope.ErrDecryptionFailed, ErrInvalidReply)
	}
	if err != nil {
		t.metrics.envelope(phaseResponse, resultFailed)
		log.ErrorContext(req.Context(), "response decryption failed",
			logger.Phase(phaseResponse),
			logger.StatusCode(resp.StatusCode),
			logger.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	t.metrics.envelope(phaseResponse, resultOpened)

	if matchEndpoint(req.URL.Path, t.loginPath) && resp.StatusCode < http.StatusMultipleChoices {
		t.saveSession(req, plain, log)
	}

	setResponseBody(resp, plain)
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func (t *Transport) saveSession(req *http.Request, plain []byte, log *slog.Logger) {
	if t.store == nil {
		return
	}

	id, ok := t.identityFromReply(plain, log)
	if !ok {
		return
	}

	if err := t.store.Save(req.Context(), id); err != nil {
		t.metrics.session("save_failed")
		log.ErrorContext(req.Context(), "failed to save session",
			logger.Phase(phaseResponse),
			logger.Error(err),
		)
		return
	}
	t.metrics.session("saved")
	log.InfoContext(req.Context(), "session saved",
		logger.Event("login"),
		logger.UserID(id.UserID),
	)
}

func (t *Transport) clearSession(req *http.Request, log *slog.Logger) {
	if t.store == nil {
		return
	}

	// The call may have ended by cancellation; the session goes either way.
	ctx := context.WithoutCancel(req.Context())
	if err := t.store.Clear(ctx); err != nil {
		t.metrics.session("clear_failed")
		log.ErrorContext(ctx, "failed to clear session",
			logger.Event("logout"),
			logger.Error(err),
		)
		return
	}
	t.metrics.session("cleared")
	log.InfoContext(ctx, "session cleared", logger.Event("logout"))
}

// matchEndpoint reports whether path addresses endpoint. path may carry the base URL
// path in front of the endpoint.
func matchEndpoint(path, endpoint string) bool {
	if endpoint == "" {
		return false
	}
	path = strings.TrimSuffix(path, "/")
	endpoint = strings.TrimSuffix(endpoint, "/")
	return path == endpoint || strings.HasSuffix(path, endpoint)
}

func setRequestBody(req *http.Request, body []byte) {
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
}

func setResponseBody(resp *http.Response, body []byte) {
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Del("Content-Length")
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
