package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/BitmanAlan/xiaohongshu/common/id"
)

// Producer publishes events for downstream consumers. Publishing is
// best-effort; callers log failures and carry on.
type Producer interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *slog.Logger
}

const defaultMaxLen = 100_000

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		maxLen: defaultMaxLen,
		logger: logger,
	}
}

func (p *redisProducer) Publish(ctx context.Context, evt Event) error {
	if evt.ID == 0 {
		evt.ID = id.New()
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: eventValues(evt, 1),
	}).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.DebugContext(ctx, "published event", "event_id", evt.ID, "event_type", evt.Type, "ref_id", evt.RefID)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

type noopProducer struct {
	logger *slog.Logger
}

// NewNoopProducer drops events. Used when no Redis is configured.
func NewNoopProducer(logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &noopProducer{logger: logger}
}

func (p *noopProducer) Publish(ctx context.Context, evt Event) error {
	p.logger.DebugContext(ctx, "event dropped, no stream configured", "event_type", evt.Type, "ref_id", evt.RefID)
	return nil
}

func (p *noopProducer) Close() error { return nil }
