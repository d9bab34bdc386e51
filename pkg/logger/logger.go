// Package logger wraps log/slog with environment-aware handlers and a
// per-request logger carried in context.
//
// Handlers: human-readable text in dev, JSON in production, and an optional
// asynchronous MongoDB sink (see mongo_handler.go) when LOG_MONGO_URI is set.
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", order.ID)
//	// → time=... level=INFO msg="order placed" request_id=a1b2c3d4 order_id=42
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/hostelease/hostelease/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	if uri := config.LogMongoURI(); uri != "" {
		if mh, err := NewMongoHandler(uri, config.LogMongoDB(), "logs"); err == nil {
			handler = NewMultiHandler(handler, mh)
		}
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

type ctxKey struct{}

// WithCtx returns the per-request logger injected by the Logger middleware,
// falling back to the base logger when none is present (tests, CLI).
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware, not usually by application code.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
