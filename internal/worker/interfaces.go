package worker

import (
	"context"
	"time"

	"github.com/BitmanAlan/xiaohongshu/internal/queue"
)

// Consumer is the slice of queue.RedisConsumer the worker drives.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, reason string) error
	SendDLQ(ctx context.Context, msg queue.Message, reason string) error
}

// StaleClaimer hands over messages whose consumer stopped acking.
type StaleClaimer interface {
	ClaimStale(ctx context.Context, minIdle time.Duration, cursor string) ([]queue.Message, string, error)
}

// EventProcessor applies one event to whatever the worker maintains.
type EventProcessor interface {
	Process(ctx context.Context, evt queue.Event) error
}
