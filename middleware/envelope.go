package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/sealedapi/core/envelope"
	"github.com/dmitrymomot/sealedapi/core/logger"
	"github.com/dmitrymomot/sealedapi/core/skiplist"
)

// EnvelopeConfig configures the server side of the envelope protocol.
type EnvelopeConfig struct {
	// Cipher opens request envelopes and seals replies (required)
	Cipher *envelope.Cipher

	// Skip defines a function to skip middleware execution for specific requests
	// (default: path matches skiplist.Default)
	Skip func(r *http.Request) bool

	// MaxBodySize is the maximum request body size in bytes (default: 4MB)
	MaxBodySize int64

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// ErrorHandler writes the reply for requests whose envelope cannot be opened
	ErrorHandler func(w http.ResponseWriter, r *http.Request, status int, err error)
}

// Envelope creates the envelope middleware with default configuration.
func Envelope(cipher *envelope.Cipher) func(http.Handler) http.Handler {
	return EnvelopeWithConfig(EnvelopeConfig{Cipher: cipher})
}

// EnvelopeWithConfig creates the envelope middleware. A request body of the form
// {"encryptedPayload": ...} is replaced with its plaintext before the handler runs;
// other bodies pass through unchanged. A JSON reply written by the handler is sealed
// into {"response": ...}.
func EnvelopeWithConfig(cfg EnvelopeConfig) func(http.Handler) http.Handler {
	if cfg.Skip == nil {
		cfg.Skip = func(r *http.Request) bool {
			return skiplist.Default.Match(r.URL.Path)
		}
	}

	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = 4 << 20
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = writeEnvelopeError
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !cfg.Cipher.Configured() {
				cfg.ErrorHandler(w, r, http.StatusInternalServerError, envelope.ErrMissingSecret)
				return
			}

			if r.Body != nil && r.Body != http.NoBody {
				body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, cfg.MaxBodySize))
				if err != nil {
					status := http.StatusBadRequest
					var tooLarge *http.MaxBytesError
					if errors.As(err, &tooLarge) {
						status = http.StatusRequestEntityTooLarge
					}
					cfg.ErrorHandler(w, r, status, err)
					return
				}

				plain, err := openRequest(cfg.Cipher, body)
				if err != nil {
					cfg.Logger.WarnContext(r.Context(), "request envelope rejected",
						logger.Component("envelope"),
						logger.Path(r.URL.Path),
						logger.Error(err),
					)
					cfg.ErrorHandler(w, r, http.StatusBadRequest, err)
					return
				}

				r.Body = io.NopCloser(bytes.NewReader(plain))
				r.ContentLength = int64(len(plain))
				r.Header.Set("Content-Length", strconv.Itoa(len(plain)))
			}

			buf := &bufferedWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(buf, r)

			out := buf.body.Bytes()
			if len(bytes.TrimSpace(out)) > 0 && json.Valid(out) {
				sealed, err := cfg.Cipher.SealJSON(json.RawMessage(out))
				if err != nil {
					cfg.Logger.ErrorContext(r.Context(), "reply encryption failed",
						logger.Component("envelope"),
						logger.Path(r.URL.Path),
						logger.Error(err),
					)
					cfg.ErrorHandler(w, r, http.StatusInternalServerError, err)
					return
				}
				out, _ = json.Marshal(envelope.ResponseEnvelope{Response: sealed})
				w.Header().Set("Content-Type", "application/json")
			}

			w.Header().Set("Content-Length", strconv.Itoa(len(out)))
			w.WriteHeader(buf.statusCode)
			_, _ = w.Write(out)
		})
	}
}

// openRequest returns the plaintext of an enveloped body, or the body itself when it
// carries no envelope.
func openRequest(c *envelope.Cipher, body []byte) ([]byte, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return body, nil
	}

	var env envelope.RequestEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.EncryptedPayload == "" {
		return body, nil
	}

	plain, err := c.Open(env.EncryptedPayload)
	if err != nil {
		return nil, err
	}
	if !json.Valid(plain) {
		return nil, errors.Join(envelope.ErrDecryptionFailed, envelope.ErrInvalidPayload)
	}
	return plain, nil
}

func writeEnvelopeError(w http.ResponseWriter, _ *http.Request, status int, err error) {
	msg := "invalid request envelope"
	switch {
	case errors.Is(err, envelope.ErrMissingSecret):
		msg = "envelope encryption is not configured"
	case status == http.StatusRequestEntityTooLarge:
		msg = "request body too large"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    status,
		"status":  "Error",
		"message": msg,
	})
}

// bufferedWriter holds the handler's reply until it is sealed.
type bufferedWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
	body          bytes.Buffer
}

func (b *bufferedWriter) WriteHeader(statusCode int) {
	if b.headerWritten {
		return
	}
	b.statusCode = statusCode
	b.headerWritten = true
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if !b.headerWritten {
		b.WriteHeader(http.StatusOK)
	}
	return b.body.Write(p)
}
