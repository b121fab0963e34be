package logger

import (
	"io"
	"log/slog"
	"os"
)

type config struct {
	level  slog.Leveler
	json   bool
	output io.Writer
	attrs  []slog.Attr
	redact bool
}

// Option configures New.
type Option func(*config)

// WithLevel sets the minimum level.
func WithLevel(level slog.Leveler) Option {
	return func(c *config) {
		if level != nil {
			c.level = level
		}
	}
}

// WithJSONFormatter selects JSON output.
func WithJSONFormatter() Option {
	return func(c *config) { c.json = true }
}

// WithTextFormatter selects text output.
func WithTextFormatter() Option {
	return func(c *config) { c.json = false }
}

// WithOutput sets the destination writer. Default is os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) { c.attrs = append(c.attrs, attrs...) }
}

// WithoutRedaction disables masking of credential-like attributes.
func WithoutRedaction() Option {
	return func(c *config) { c.redact = false }
}

// WithDevelopment configures text output at debug level for service.
func WithDevelopment(service string) Option {
	return func(c *config) {
		c.json = false
		c.level = slog.LevelDebug
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("env", "development"))
	}
}

// WithProduction configures JSON output at info level for service.
func WithProduction(service string) Option {
	return func(c *config) {
		c.json = true
		c.level = slog.LevelInfo
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("env", "production"))
	}
}

// New creates a logger. Attributes whose keys look like credentials are masked
// unless WithoutRedaction is given.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		output: os.Stderr,
		redact: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	handlerOpts := &slog.HandlerOptions{Level: c.level}

	var h slog.Handler
	if c.json {
		h = slog.NewJSONHandler(c.output, handlerOpts)
	} else {
		h = slog.NewTextHandler(c.output, handlerOpts)
	}
	if c.redact {
		h = NewRedactingHandler(h)
	}
	if len(c.attrs) > 0 {
		h = h.WithAttrs(c.attrs)
	}

	return slog.New(h)
}

// SetAsDefault installs log as the slog default logger.
func SetAsDefault(log *slog.Logger) {
	if log != nil {
		slog.SetDefault(log)
	}
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
