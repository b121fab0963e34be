package mockapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sealedapi/core/envelope"
	"github.com/dmitrymomot/sealedapi/core/health"
	"github.com/dmitrymomot/sealedapi/middleware"
)

// Prefix is the path prefix of all API routes.
const Prefix = "/api/v1"

// DefaultPassword is the password accepted when Config.Password is empty.
const DefaultPassword = "password"

// Config configures the mock API.
type Config struct {
	// Cipher opens requests and seals replies (required)
	Cipher *envelope.Cipher

	// SigningKey signs issued bearer tokens (required)
	SigningKey []byte

	// TokenTTL is the lifetime of issued tokens (default: 1h)
	TokenTTL time.Duration

	// Password accepted for every email (default: DefaultPassword)
	Password string

	// Records served by txn/all (default: Seed(40, Now()))
	Records []Record

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// Now is the time source (default: time.Now)
	Now func() time.Time
}

type api struct {
	cfg Config
}

// New returns the mock API handler wrapped in request ID, logging and envelope middleware.
func New(cfg Config) (http.Handler, error) {
	if cfg.Cipher == nil {
		return nil, ErrMissingCipher
	}
	if len(cfg.SigningKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.Password == "" {
		cfg.Password = DefaultPassword
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Records == nil {
		cfg.Records = Seed(40, cfg.Now())
	}

	a := &api{cfg: cfg}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+Prefix+"/user/login", a.login)
	mux.Handle("POST "+Prefix+"/user/logout", a.authenticated(a.logout))
	mux.Handle("POST "+Prefix+"/txn/all", a.authenticated(a.listTransactions))
	mux.HandleFunc("GET "+Prefix+"/test/health", health.Liveness)
	mux.Handle("GET /health/ready", health.Readiness(cfg.Logger, func(ctx context.Context) error {
		_, err := cfg.Cipher.Key()
		return err
	}))

	var h http.Handler = mux
	h = middleware.EnvelopeWithConfig(middleware.EnvelopeConfig{
		Cipher: cfg.Cipher,
		Logger: cfg.Logger,
	})(h)
	h = middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger:    cfg.Logger,
		Component: "mockapi",
	})(h)
	h = middleware.RequestID()(h)
	return h, nil
}

// reply is the wire form of every JSON answer.
type reply struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeReply(w http.ResponseWriter, code int, message string, data any) {
	status := "Success"
	if code >= http.StatusBadRequest {
		status = "Error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(reply{Code: code, Status: status, Message: message, Data: data})
}
