package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BitmanAlan/xiaohongshu/common/logger"
	"github.com/BitmanAlan/xiaohongshu/internal/queue"
)

type Config struct {
	// MaxAttempts is how many deliveries an event gets before the DLQ.
	MaxAttempts int
	// ErrorBackoff is the pause after a failed read.
	ErrorBackoff time.Duration
}

// Worker pulls batches from a Consumer and applies each event with an
// EventProcessor. Failures are requeued until MaxAttempts, then dead-lettered.
type Worker struct {
	consumer  Consumer
	processor EventProcessor
	cfg       Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, processor EventProcessor, cfg Config) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	return &Worker{
		consumer:  consumer,
		processor: processor,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run returns ctx.Err() when ctx ends and nil after Stop.
func (w *Worker) Run(ctx context.Context) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "copywriter.worker"})
	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "worker started", "max_attempts", w.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		default:
		}

		msgs, err := w.consumer.Read(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "reading events failed", "error", err)
			w.pause(ctx)
			continue
		}
		for _, msg := range msgs {
			w.Handle(ctx, msg)
		}
	}
}

// Stop asks Run to return after the batch in hand and waits for it.
func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) pause(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-w.stopCh:
	case <-time.After(w.cfg.ErrorBackoff):
	}
}

// Handle processes msg and settles it: ack on success, otherwise requeue
// or dead-letter depending on the attempt. Matches queue.MessageHandler.
func (w *Worker) Handle(ctx context.Context, msg queue.Message) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		EventID: logger.Ptr(strconv.FormatInt(msg.Event.ID, 10)),
	})
	if msg.Event.UserID != "" {
		ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(msg.Event.UserID)})
	}

	sp := logger.StartSpan(ctx, "worker.handle",
		attribute.String("event.type", string(msg.Event.Type)),
		attribute.Int("event.attempt", msg.Attempt))
	ctx = sp.Context()

	err := w.process(ctx, msg.Event)
	sp.EndWith(err)

	if err == nil {
		if ackErr := w.consumer.Ack(ctx, msg); ackErr != nil {
			// the reclaimer redelivers it; the processor skips seen events
			slog.WarnContext(ctx, "ack failed", "error", ackErr, "message_id", msg.ID)
		}
		return
	}

	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "event failed permanently, dead-lettering",
			"error", err,
			"event_type", msg.Event.Type,
			"attempts", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "dead-letter failed", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "event failed, requeuing",
		"error", err,
		"event_type", msg.Event.Type,
		"attempt", msg.Attempt)
	if reqErr := w.consumer.Requeue(ctx, msg, err.Error()); reqErr != nil {
		slog.ErrorContext(ctx, "requeue failed", "error", reqErr)
	}
}

func (w *Worker) process(ctx context.Context, evt queue.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing %s: %v", evt.Type, r)
		}
	}()
	return w.processor.Process(ctx, evt)
}
