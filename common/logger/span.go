package logger

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/BitmanAlan/xiaohongshu"

// Span is a started span plus the context carrying it, so log records made
// with Context() pick up its trace id.
//
//	sp := logger.StartSpan(ctx, "llm.complete", attribute.String("llm.model", model))
//	defer sp.End()
type Span struct {
	ctx  context.Context
	span trace.Span
}

func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) *Span {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
	return &Span{ctx: ctx, span: span}
}

func (s *Span) Context() context.Context {
	return s.ctx
}

func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}

// RecordError marks the span failed; nil is ignored.
func (s *Span) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *Span) End() {
	s.span.End()
}

// EndWith records err (if any) and ends the span.
func (s *Span) EndWith(err error) {
	s.RecordError(err)
	s.span.End()
}
