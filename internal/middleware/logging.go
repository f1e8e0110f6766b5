// Package middleware provides request-scoped fiber middleware: logging, metrics, tracing and rate limiting.
package middleware

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger is shared by every layer. It is replaced by ConfigureLogger at startup.
var Logger = NewLogger(os.Stdout, os.Getenv("APP_ENV"), "info")

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	TraceIDKey   contextKey = "trace_id"
)

// requestAttrs decorates records with the request and trace ids found in ctx.
type requestAttrs struct {
	next slog.Handler
}

func (h requestAttrs) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h requestAttrs) Handle(ctx context.Context, r slog.Record) error {
	for _, key := range []contextKey{RequestIDKey, TraceIDKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			r.AddAttrs(slog.String(string(key), v))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h requestAttrs) WithAttrs(attrs []slog.Attr) slog.Handler {
	return requestAttrs{next: h.next.WithAttrs(attrs)}
}

func (h requestAttrs) WithGroup(name string) slog.Handler {
	return requestAttrs{next: h.next.WithGroup(name)}
}

// NewLogger writes JSON in production and logfmt-style text elsewhere.
// Unknown levels fall back to info.
func NewLogger(w io.Writer, env, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	switch strings.ToLower(env) {
	case "production", "prod":
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(requestAttrs{next: h})
}

// ConfigureLogger swaps the shared logger for one matching the loaded config.
func ConfigureLogger(env, level string) {
	Logger = NewLogger(os.Stdout, env, level)
	slog.SetDefault(Logger)
}

// ContextMiddleware copies the request id and trace id from fiber locals into
// the user context so repositories and services log them.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if v, ok := c.Locals("requestid").(string); ok {
			ctx = context.WithValue(ctx, RequestIDKey, v)
		}
		if v, ok := c.Locals("traceID").(string); ok {
			ctx = context.WithValue(ctx, TraceIDKey, v)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StructuredLogger emits one access log line per request. Client errors log
// at warn and server errors at error.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		began := time.Now()
		err := c.Next()

		code := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			code = fe.Code
		}

		attrs := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", code),
			slog.Duration("latency", time.Since(began)),
			slog.String("ip", c.IP()),
		}
		if ua := c.Get(fiber.HeaderUserAgent); ua != "" {
			attrs = append(attrs, slog.String("user_agent", ua))
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		lvl := slog.LevelInfo
		switch {
		case code >= fiber.StatusInternalServerError:
			lvl = slog.LevelError
		case code >= fiber.StatusBadRequest:
			lvl = slog.LevelWarn
		}
		Logger.LogAttrs(c.UserContext(), lvl, "http request", attrs...)

		return err
	}
}
