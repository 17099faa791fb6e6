package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// LogFields are attached to every record logged with a context that carries them.
type LogFields struct {
	UserID       *string
	GenerationID *string
	RequestID    *string
	EventID      *string // stream event, set by the worker
	Component    string  // e.g. "copywriter.service.generation"
}

// WithLogFields merges fields into the context. Newer non-empty values win.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	return context.WithValue(ctx, contextKey{}, GetLogFields(ctx).merge(fields))
}

// GetLogFields returns the fields on ctx, or the zero value.
func GetLogFields(ctx context.Context) LogFields {
	fields, _ := ctx.Value(contextKey{}).(LogFields)
	return fields
}

func (f LogFields) merge(next LogFields) LogFields {
	f.UserID = pick(f.UserID, next.UserID)
	f.GenerationID = pick(f.GenerationID, next.GenerationID)
	f.RequestID = pick(f.RequestID, next.RequestID)
	f.EventID = pick(f.EventID, next.EventID)
	if next.Component != "" {
		f.Component = next.Component
	}
	return f
}

func pick(current, next *string) *string {
	if next != nil {
		return next
	}
	return current
}

func (f LogFields) attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 5)
	for _, field := range []struct {
		key   string
		value *string
	}{
		{"user_id", f.UserID},
		{"generation_id", f.GenerationID},
		{"request_id", f.RequestID},
		{"event_id", f.EventID},
	} {
		if field.value != nil {
			attrs = append(attrs, slog.String(field.key, *field.value))
		}
	}
	if f.Component != "" {
		attrs = append(attrs, slog.String("component", f.Component))
	}
	return attrs
}

// Ptr returns a pointer to v, for inline LogFields literals.
func Ptr[T any](v T) *T {
	return &v
}

// Truncate shortens s to at most maxLen runes, appending "..." when cut.
// Rune-based so Chinese copy is never split mid-character.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
