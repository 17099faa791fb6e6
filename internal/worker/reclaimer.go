package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/BitmanAlan/xiaohongshu/common/logger"
	"github.com/BitmanAlan/xiaohongshu/internal/queue"
)

// cursorDone is the XAUTOCLAIM cursor once the pending list is exhausted.
const cursorDone = "0-0"

type ReclaimerConfig struct {
	MinIdle  time.Duration
	Interval time.Duration
	// MaxRounds caps XAUTOCLAIM calls per tick; zero means 10.
	MaxRounds int
}

// Reclaimer periodically takes over messages left pending by a consumer
// that died between read and ack, and routes them through the same
// handler as fresh reads.
type Reclaimer struct {
	claimer StaleClaimer
	handle  queue.MessageHandler
	cfg     ReclaimerConfig

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewReclaimer(claimer StaleClaimer, handle queue.MessageHandler, cfg ReclaimerConfig) *Reclaimer {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 10
	}
	return &Reclaimer{
		claimer:   claimer,
		handle:    handle,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run ticks until Stop is called or ctx ends.
func (r *Reclaimer) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "copywriter.worker.reclaimer"})
	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "reclaimer started", "interval", r.cfg.Interval, "min_idle", r.cfg.MinIdle)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			if n := r.ReclaimOnce(ctx); n > 0 {
				slog.InfoContext(ctx, "reclaimed stale messages", "count", n)
			}
		}
	}
}

func (r *Reclaimer) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

// ReclaimOnce walks the pending list once and returns how many messages
// it handed to the handler.
func (r *Reclaimer) ReclaimOnce(ctx context.Context) int {
	handled := 0
	cursor := cursorDone
	for round := 0; round < r.cfg.MaxRounds; round++ {
		msgs, next, err := r.claimer.ClaimStale(ctx, r.cfg.MinIdle, cursor)
		if err != nil {
			slog.ErrorContext(ctx, "claiming stale messages failed", "error", err)
			return handled
		}
		for _, msg := range msgs {
			r.handle(ctx, msg)
			handled++
		}
		if next == cursorDone || next == "" {
			return handled
		}
		cursor = next
	}
	return handled
}
