package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sealedapi/core/config"
	"github.com/dmitrymomot/sealedapi/core/envelope"
	"github.com/dmitrymomot/sealedapi/core/logger"
	"github.com/dmitrymomot/sealedapi/core/session"
	"github.com/dmitrymomot/sealedapi/core/transport"
	"github.com/dmitrymomot/sealedapi/integration/database/redis"
)

// app carries the flags and the lazily built dependencies of one invocation.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	envFiles    []string
	output      string
	verbose     bool
	jsonLogs    bool
	metricsFile string
	baseURL     string
	sessionFile string

	transportCfg transport.Config
	sessionCfg   session.Config
	redisCfg     redis.Config

	log      *slog.Logger
	registry *prometheus.Registry
	store    *session.Manager
	client   *transport.Client
	closers  []func() error
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, errOut: errOut, output: formatText}
}

// setup loads configuration and builds the logger. It runs before every command.
func (a *app) setup() error {
	if err := config.LoadFiles(a.envFiles...); err != nil {
		return err
	}
	if err := errors.Join(
		config.Load(&a.transportCfg),
		config.Load(&a.sessionCfg),
		config.Load(&a.redisCfg),
	); err != nil {
		return err
	}

	if a.baseURL != "" {
		a.transportCfg.BaseURL = a.baseURL
	}
	if a.sessionFile != "" {
		a.sessionCfg.Driver = session.DriverFile
		a.sessionCfg.FilePath = a.sessionFile
	}

	switch strings.ToLower(a.output) {
	case formatText, formatYAML, formatJSON:
		a.output = strings.ToLower(a.output)
	default:
		return fmt.Errorf("unknown output format %q (want text, yaml or json)", a.output)
	}

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	opts := []logger.Option{
		logger.WithOutput(a.errOut),
		logger.WithLevel(level),
		logger.WithAttr(logger.Component("sealedctl")),
	}
	if a.jsonLogs {
		opts = append(opts, logger.WithJSONFormatter())
	}
	a.log = logger.New(opts...)

	if a.metricsFile != "" {
		a.registry = prometheus.NewRegistry()
	}
	return nil
}

func (a *app) cipher() (*envelope.Cipher, error) {
	kdf, err := envelope.ParseKDF(a.transportCfg.KDF)
	if err != nil {
		return nil, err
	}
	return envelope.NewCipher(a.transportCfg.SecretKey, envelope.WithKDF(kdf)), nil
}

// sessionStore opens the configured session backend once.
func (a *app) sessionStore(ctx context.Context) (*session.Manager, error) {
	if a.store != nil {
		return a.store, nil
	}

	var rdb goredis.UniversalClient
	if strings.EqualFold(a.sessionCfg.Driver, session.DriverRedis) {
		client, err := redis.Connect(ctx, a.redisCfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		rdb = client
	}

	backend, err := session.NewBackend(a.sessionCfg, rdb)
	if err != nil {
		return nil, err
	}
	a.store = session.NewManager(backend, a.transportCfg.SecretKey, session.WithLogger(a.log))
	return a.store, nil
}

// apiClient builds the transport client once.
func (a *app) apiClient(ctx context.Context) (*transport.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	store, err := a.sessionStore(ctx)
	if err != nil {
		return nil, err
	}

	opts := []transport.Option{transport.WithLogger(a.log)}
	if a.registry != nil {
		metrics, err := transport.NewMetrics(a.registry)
		if err != nil {
			return nil, err
		}
		opts = append(opts, transport.WithMetrics(metrics))
	}

	a.client, err = transport.NewClient(a.transportCfg, store, opts...)
	if err != nil {
		return nil, err
	}
	return a.client, nil
}

// teardown writes the metrics file and releases connections.
func (a *app) teardown() error {
	var errs []error
	if a.registry != nil && a.metricsFile != "" {
		if err := prometheus.WriteToTextfile(a.metricsFile, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
