package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BitmanAlan/xiaohongshu/common/logger"
)

type ConsumerConfig struct {
	Stream    string
	Group     string
	Consumer  string
	DLQStream string
	BatchSize int64
	// Block bounds each read; zero would block forever.
	Block time.Duration
	// RequeueDelay spaces out retries of a failing event.
	RequeueDelay time.Duration
}

// Message is one stream entry decoded back into its Event.
type Message struct {
	ID      string
	Event   Event
	Attempt int
	Raw     redis.XMessage
}

// MessageHandler takes ownership of msg, including its ack.
type MessageHandler func(ctx context.Context, msg Message)

// RedisConsumer reads the event stream as one member of a consumer group.
type RedisConsumer struct {
	client *redis.Client
	cfg    ConsumerConfig
}

// NewRedisConsumer creates the group (and stream) on first use.
func NewRedisConsumer(ctx context.Context, client *redis.Client, cfg ConsumerConfig) (*RedisConsumer, error) {
	if cfg.Block <= 0 {
		cfg.Block = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}

	// "0" so a new group also counts events published before the worker first ran
	err := client.XGroupCreateMkStream(ctx, cfg.Stream, cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("creating consumer group %s: %w", cfg.Group, err)
	}

	return &RedisConsumer{client: client, cfg: cfg}, nil
}

// Read returns the next batch of new entries. Entries that do not decode
// are acked and dropped so they cannot wedge the group.
func (c *RedisConsumer) Read(ctx context.Context) ([]Message, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "copywriter.queue.consumer"})

	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		Streams:  []string{c.cfg.Stream, ">"},
		Count:    c.cfg.BatchSize,
		Block:    c.cfg.Block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup %s: %w", c.cfg.Stream, err)
	}

	var raw []redis.XMessage
	for _, s := range streams {
		raw = append(raw, s.Messages...)
	}
	messages, dropped := c.Decode(ctx, raw)
	if len(dropped) > 0 {
		if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, dropped...).Err(); err != nil {
			slog.WarnContext(ctx, "failed to ack undecodable entries", "error", err, "count", len(dropped))
		}
	}
	return messages, nil
}

// Decode splits raw entries into messages and the ids of entries that do
// not parse.
func (c *RedisConsumer) Decode(ctx context.Context, raw []redis.XMessage) ([]Message, []string) {
	messages := make([]Message, 0, len(raw))
	var dropped []string
	for _, entry := range raw {
		msg, err := ParseMessage(entry)
		if err != nil {
			slog.ErrorContext(ctx, "dropping undecodable stream entry",
				"error", err,
				"entry_id", entry.ID,
				"stream", c.cfg.Stream)
			dropped = append(dropped, entry.ID)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, dropped
}

// ClaimStale takes over entries another consumer has held for at least
// minIdle, scanning from cursor ("0-0" to start). The returned cursor is
// "0-0" once the pending list has been walked.
func (c *RedisConsumer) ClaimStale(ctx context.Context, minIdle time.Duration, cursor string) ([]Message, string, error) {
	raw, next, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.cfg.Stream,
		Group:    c.cfg.Group,
		Consumer: c.cfg.Consumer,
		MinIdle:  minIdle,
		Start:    cursor,
		Count:    c.cfg.BatchSize,
	}).Result()
	if err != nil {
		return nil, "", fmt.Errorf("xautoclaim %s: %w", c.cfg.Stream, err)
	}

	messages, dropped := c.Decode(ctx, raw)
	if len(dropped) > 0 {
		if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, dropped...).Err(); err != nil {
			slog.WarnContext(ctx, "failed to ack undecodable entries", "error", err, "count", len(dropped))
		}
	}
	return messages, next, nil
}

func (c *RedisConsumer) Ack(ctx context.Context, msg Message) error {
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msg.ID).Err(); err != nil {
		return fmt.Errorf("xack %s: %w", msg.ID, err)
	}
	return nil
}

// Requeue re-publishes msg with its attempt bumped and acks the original,
// both in one MULTI so the event is never lost or doubled.
func (c *RedisConsumer) Requeue(ctx context.Context, msg Message, reason string) error {
	if c.cfg.RequeueDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.RequeueDelay):
		}
	}

	values := eventValues(msg.Event, msg.Attempt+1)
	values["last_error"] = reason
	if err := c.moveTo(ctx, msg, c.cfg.Stream, values); err != nil {
		return fmt.Errorf("requeue %s: %w", msg.ID, err)
	}
	return nil
}

// SendDLQ moves msg to the dead-letter stream with the final error.
func (c *RedisConsumer) SendDLQ(ctx context.Context, msg Message, reason string) error {
	values := eventValues(msg.Event, msg.Attempt)
	values["error"] = reason
	values["source_id"] = msg.ID
	if err := c.moveTo(ctx, msg, c.cfg.DLQStream, values); err != nil {
		return fmt.Errorf("dead-letter %s: %w", msg.ID, err)
	}
	return nil
}

func (c *RedisConsumer) moveTo(ctx context.Context, msg Message, stream string, values map[string]any) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAdd(ctx, &redis.XAddArgs{Stream: stream, Values: values})
		pipe.XAck(ctx, c.cfg.Stream, c.cfg.Group, msg.ID)
		return nil
	})
	return err
}

// ParseMessage decodes an entry written by the producer or by Requeue.
func ParseMessage(entry redis.XMessage) (Message, error) {
	evt, err := parseEvent(entry.Values)
	if err != nil {
		return Message{}, err
	}

	attempt := 1
	if raw := optionalString(entry.Values, "attempt"); raw != "" {
		if attempt, err = strconv.Atoi(raw); err != nil || attempt < 1 {
			return Message{}, fmt.Errorf("invalid attempt %q", raw)
		}
	}

	return Message{ID: entry.ID, Event: evt, Attempt: attempt, Raw: entry}, nil
}
