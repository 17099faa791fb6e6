package worker_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/BitmanAlan/xiaohongshu/common/id"
	"github.com/BitmanAlan/xiaohongshu/core/kv"
	"github.com/BitmanAlan/xiaohongshu/internal/queue"
	"github.com/BitmanAlan/xiaohongshu/internal/worker"
)

type failingIncrStore struct {
	kv.Store
	failKey string
}

func (s *failingIncrStore) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	if key == s.failKey {
		return 0, errors.New("write refused")
	}
	return s.Store.Incr(ctx, key, delta)
}

var _ = Describe("StatsProcessor", func() {
	var (
		ctx   context.Context
		store kv.Store
		stats *worker.StatsProcessor
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = kv.NewMemoryStore()
		stats = worker.NewStatsProcessor(store)
	})

	It("counts events per day and type", func() {
		gen := queue.Event{ID: id.New(), Type: queue.EventTypeGenerationCompleted, FallbackUsed: true}
		Expect(stats.Process(ctx, gen)).To(Succeed())
		Expect(stats.Process(ctx, queue.Event{ID: id.New(), Type: queue.EventTypeGenerationCompleted})).To(Succeed())
		Expect(stats.Process(ctx, queue.Event{ID: id.New(), Type: queue.EventTypeFeedbackSubmitted})).To(Succeed())

		daily, err := stats.Daily(ctx, id.Time(gen.ID))
		Expect(err).NotTo(HaveOccurred())
		Expect(daily.Date).To(Equal(id.Time(gen.ID).UTC().Format("2006-01-02")))
		Expect(daily.Events[queue.EventTypeGenerationCompleted]).To(BeEquivalentTo(2))
		Expect(daily.Events[queue.EventTypeFeedbackSubmitted]).To(BeEquivalentTo(1))
		Expect(daily.Events[queue.EventTypeStyleAnalyzed]).To(BeZero())
		Expect(daily.Fallbacks).To(BeEquivalentTo(1))
	})

	It("counts a redelivered event once", func() {
		evt := queue.Event{ID: id.New(), Type: queue.EventTypeUserSignedUp}
		Expect(stats.Process(ctx, evt)).To(Succeed())
		Expect(stats.Process(ctx, evt)).To(Succeed())

		daily, err := stats.Daily(ctx, id.Time(evt.ID))
		Expect(err).NotTo(HaveOccurred())
		Expect(daily.Events[queue.EventTypeUserSignedUp]).To(BeEquivalentTo(1))
	})

	It("lets a failed event be counted on retry", func() {
		evt := queue.Event{ID: id.New(), Type: queue.EventTypeStyleAnalyzed}
		date := id.Time(evt.ID).UTC().Format("2006-01-02")
		broken := &failingIncrStore{Store: store, failKey: kv.Key("stats", date, "style_analyzed")}

		Expect(worker.NewStatsProcessor(broken).Process(ctx, evt)).NotTo(Succeed())
		Expect(stats.Process(ctx, evt)).To(Succeed())

		daily, err := stats.Daily(ctx, id.Time(evt.ID))
		Expect(err).NotTo(HaveOccurred())
		Expect(daily.Events[queue.EventTypeStyleAnalyzed]).To(BeEquivalentTo(1))
	})
})
