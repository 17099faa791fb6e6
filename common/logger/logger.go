package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/trace"

	"github.com/BitmanAlan/xiaohongshu/core/config"
)

// Setup installs the process-wide slog handler: text in development, JSON
// in production, the OTel bridge when production also exports logs.
func Setup(cfg config.Config) {
	slog.SetDefault(slog.New(newHandler(cfg, os.Stdout)))
}

func newHandler(cfg config.Config, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: Level(cfg)}

	if cfg.IsProduction() {
		if cfg.OTel.Enabled() {
			return otelslog.NewHandler(
				cfg.OTel.ServiceName,
				otelslog.WithLoggerProvider(global.GetLoggerProvider()),
			)
		}
		return NewTraceHandler(slog.NewJSONHandler(w, opts))
	}
	return NewTraceHandler(slog.NewTextHandler(w, opts))
}

// Level honours LOG_LEVEL (debug, info, warn, error) and otherwise logs
// debug in development and info elsewhere.
func Level(cfg config.Config) slog.Level {
	var level slog.Level
	if cfg.LogLevel != "" && level.UnmarshalText([]byte(cfg.LogLevel)) == nil {
		return level
	}
	if cfg.IsDevelopment() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// TraceHandler adds the active span and the context's LogFields to each record.
type TraceHandler struct {
	slog.Handler
}

func NewTraceHandler(h slog.Handler) *TraceHandler {
	return &TraceHandler{Handler: h}
}

func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	r.AddAttrs(GetLogFields(ctx).attrs()...)
	return h.Handler.Handle(ctx, r)
}

func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *TraceHandler) WithGroup(name string) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithGroup(name)}
}
