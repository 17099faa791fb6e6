package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BitmanAlan/xiaohongshu/common/id"
	"github.com/BitmanAlan/xiaohongshu/core/kv"
	"github.com/BitmanAlan/xiaohongshu/internal/queue"
)

const (
	statsNamespace     = "stats"
	statsSeenNamespace = "stats_event"
	statsFallback      = "fallback"
	dateLayout         = "2006-01-02"
)

var countedTypes = []queue.EventType{
	queue.EventTypeGenerationCompleted,
	queue.EventTypeFeedbackSubmitted,
	queue.EventTypeStyleAnalyzed,
	queue.EventTypeUserSignedUp,
}

// DailyStats are the per-day event counts the worker maintains.
type DailyStats struct {
	Date      string                    `json:"date"`
	Events    map[queue.EventType]int64 `json:"events"`
	Fallbacks int64                     `json:"fallbacks"`
}

// StatsProcessor keeps daily counters under stats:{date}:{event_type}.
// Each event is counted at most once per marker lifetime.
type StatsProcessor struct {
	store kv.Store
}

func NewStatsProcessor(store kv.Store) *StatsProcessor {
	return &StatsProcessor{store: store}
}

func (p *StatsProcessor) Process(ctx context.Context, evt queue.Event) error {
	seenKey := kv.Key(statsSeenNamespace, fmt.Sprint(evt.ID))
	seen, err := p.store.Incr(ctx, seenKey, 1)
	if err != nil {
		return fmt.Errorf("marking event %d: %w", evt.ID, err)
	}
	if seen > 1 {
		slog.DebugContext(ctx, "event already counted, skipping", "event_id", evt.ID)
		return nil
	}

	date := id.Time(evt.ID).UTC().Format(dateLayout)
	if err := p.count(ctx, date, evt); err != nil {
		// release the marker so a retry counts the event
		if delErr := p.store.Delete(ctx, seenKey); delErr != nil {
			return errors.Join(err, fmt.Errorf("releasing marker: %w", delErr))
		}
		return err
	}
	return nil
}

func (p *StatsProcessor) count(ctx context.Context, date string, evt queue.Event) error {
	if _, err := p.store.Incr(ctx, kv.Key(statsNamespace, date, string(evt.Type)), 1); err != nil {
		return fmt.Errorf("counting %s: %w", evt.Type, err)
	}
	if evt.FallbackUsed {
		if _, err := p.store.Incr(ctx, kv.Key(statsNamespace, date, statsFallback), 1); err != nil {
			return fmt.Errorf("counting fallback: %w", err)
		}
	}
	return nil
}

// Daily reads the counters for the UTC day containing day.
func (p *StatsProcessor) Daily(ctx context.Context, day time.Time) (DailyStats, error) {
	date := day.UTC().Format(dateLayout)
	stats := DailyStats{
		Date:   date,
		Events: make(map[queue.EventType]int64, len(countedTypes)),
	}

	for _, t := range countedTypes {
		n, err := p.store.Counter(ctx, kv.Key(statsNamespace, date, string(t)))
		if err != nil {
			return DailyStats{}, fmt.Errorf("reading %s: %w", t, err)
		}
		stats.Events[t] = n
	}

	n, err := p.store.Counter(ctx, kv.Key(statsNamespace, date, statsFallback))
	if err != nil {
		return DailyStats{}, fmt.Errorf("reading fallback: %w", err)
	}
	stats.Fallbacks = n

	return stats, nil
}
