package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/BitmanAlan/xiaohongshu/internal/queue"
)

// publish is best-effort: a failure is logged and otherwise ignored.
func publish(ctx context.Context, p queue.Producer, evt queue.Event) {
	if p == nil {
		return
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID := sc.TraceID().String()
		evt.TraceID = &traceID
	}
	if err := p.Publish(ctx, evt); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "error", err, "event_type", evt.Type)
	}
}
