package queue_test

import (
	"context"
	"fmt"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"github.com/BitmanAlan/xiaohongshu/internal/queue"
)

var _ = Describe("ParseMessage", func() {
	It("decodes the fields the producer writes", func() {
		msg, err := queue.ParseMessage(redis.XMessage{
			ID: "1-0",
			Values: map[string]any{
				"event_id":      "42",
				"event_type":    "generation_completed",
				"user_id":       "u1",
				"ref_id":        "generation:u1:1",
				"fallback_used": "true",
				"trace_id":      "abc",
			},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(msg.ID).To(Equal("1-0"))
		Expect(msg.Attempt).To(Equal(1))
		Expect(msg.Event.ID).To(BeEquivalentTo(42))
		Expect(msg.Event.Type).To(Equal(queue.EventTypeGenerationCompleted))
		Expect(msg.Event.UserID).To(Equal("u1"))
		Expect(msg.Event.FallbackUsed).To(BeTrue())
		Expect(*msg.Event.TraceID).To(Equal("abc"))
	})

	DescribeTable("rejects malformed entries",
		func(values map[string]any) {
			_, err := queue.ParseMessage(redis.XMessage{ID: "1-0", Values: values})
			Expect(err).To(HaveOccurred())
		},
		Entry("missing event id", map[string]any{"event_type": "feedback_submitted"}),
		Entry("non-numeric event id", map[string]any{"event_id": "x", "event_type": "feedback_submitted"}),
		Entry("unknown type", map[string]any{"event_id": "1", "event_type": "deleted"}),
		Entry("bad attempt", map[string]any{"event_id": "1", "event_type": "feedback_submitted", "attempt": "two"}),
		Entry("bad flag", map[string]any{"event_id": "1", "event_type": "feedback_submitted", "fallback_used": "maybe"}),
	)
})

var _ = Describe("RedisConsumer", func() {
	var (
		ctx    context.Context
		client *redis.Client
		stream string
	)

	BeforeEach(func() {
		url := os.Getenv("KV_TEST_REDIS_URL")
		if url == "" {
			Skip("KV_TEST_REDIS_URL not set")
		}
		opts, err := redis.ParseURL(url)
		Expect(err).NotTo(HaveOccurred())
		client = redis.NewClient(opts)
		ctx = context.Background()
		stream = fmt.Sprintf("test_events_%d", time.Now().UnixNano())
		DeferCleanup(func() {
			client.Del(ctx, stream, stream+"_dlq")
			_ = client.Close()
		})
	})

	It("reads what the producer published and requeues with a bumped attempt", func() {
		consumer, err := queue.NewRedisConsumer(ctx, client, queue.ConsumerConfig{
			Stream:    stream,
			Group:     "stats",
			Consumer:  "test",
			DLQStream: stream + "_dlq",
			BatchSize: 10,
			Block:     100 * time.Millisecond,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(client.XAdd(ctx, &redis.XAddArgs{Stream: stream, Values: map[string]any{
			"event_id": "7", "event_type": "feedback_submitted", "user_id": "u1", "ref_id": "feedback:u1:7",
		}}).Err()).To(Succeed())

		msgs, err := consumer.Read(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Event.Type).To(Equal(queue.EventTypeFeedbackSubmitted))

		Expect(consumer.Requeue(ctx, msgs[0], "boom")).To(Succeed())

		again, err := consumer.Read(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(HaveLen(1))
		Expect(again[0].Attempt).To(Equal(2))
		Expect(again[0].Event.ID).To(BeEquivalentTo(7))

		Expect(consumer.SendDLQ(ctx, again[0], "boom")).To(Succeed())
		dead, err := client.XLen(ctx, stream+"_dlq").Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(dead).To(BeEquivalentTo(1))
	})
})
