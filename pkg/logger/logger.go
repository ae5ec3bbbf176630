package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/micronstore/storefront/pkg/env"
	"github.com/rs/zerolog"
)

const redacted = "[redacted]"

// defaultRedactedKeys never reach the log output in clear text. Extra keys
// come from MICRON_LOG_REDACT.
var defaultRedactedKeys = []string{"authorization", "access_token", "csrf_token", "csrftoken", "password", "cookie"}

// Options configures the structured logger.
type Options struct {
	ServiceName string
	// Instance is stamped on every entry when set.
	Instance  string
	Level     zerolog.Level
	WarnStack bool
	Output    io.Writer
	// Format is "json" or "console"; empty reads MICRON_LOG_FORMAT.
	Format string
}

type Logger struct {
	base      *zerolog.Logger
	warnStack bool
	redact    map[string]struct{}
}

type ctxKey struct{}

func New(opts Options) *Logger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Format == "" {
		opts.Format = env.Get("MICRON_LOG_FORMAT", env.Get("LOG_FORMAT", "json"))
	}

	output := opts.Output
	if strings.EqualFold(opts.Format, "console") {
		output = zerolog.ConsoleWriter{Out: opts.Output, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	fields := zerolog.New(output).With().Timestamp().Str("service", opts.ServiceName)
	if opts.Instance != "" {
		fields = fields.Str("instance", opts.Instance)
	}
	base := fields.Logger().Level(opts.Level)

	redact := make(map[string]struct{})
	for _, k := range append(defaultRedactedKeys, env.List("MICRON_LOG_REDACT", nil)...) {
		redact[strings.ToLower(k)] = struct{}{}
	}

	return &Logger{base: &base, warnStack: opts.WarnStack, redact: redact}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(Options{ServiceName: "nop", Output: io.Discard, Level: zerolog.Disabled, Format: "json"})
}

// ParseLevel falls back to info for empty or unknown values.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) entry(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if e, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return e
		}
	}
	return l.base
}

func (l *Logger) value(key string, v any) any {
	if _, ok := l.redact[strings.ToLower(key)]; ok {
		return redacted
	}
	return v
}

// WithField returns a context whose entries carry key.
func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.WithFields(ctx, map[string]any{key: value})
}

func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	b := l.entry(ctx).With()
	for k, v := range fields {
		b = b.Interface(k, l.value(k, v))
	}
	e := b.Logger()
	return context.WithValue(ctx, ctxKey{}, &e)
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithUserID(ctx context.Context, userID string) context.Context {
	return l.WithField(ctx, "user_id", userID)
}

// WithSessionID tags entries with the storefront session that owns the cart.
func (l *Logger) WithSessionID(ctx context.Context, sessionID string) context.Context {
	return l.WithField(ctx, "session_id", sessionID)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.entry(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.entry(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	event := l.entry(ctx).Warn()
	if l.warnStack {
		event = event.Str("stack", stackTrace())
	}
	event.Msg(msg)
}

// Error always records the stack.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	l.entry(ctx).Error().Err(err).Str("stack", stackTrace()).Msg(msg)
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
