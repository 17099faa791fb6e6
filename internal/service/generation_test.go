package service_test

import (
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/BitmanAlan/xiaohongshu/common/llm"
	"github.com/BitmanAlan/xiaohongshu/core/kv"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/queue"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

var _ = Describe("GenerationService", func() {
	var (
		ctx      context.Context
		stores   *store.Stores
		client   *mockLLM
		events   *mockProducer
		user     *model.User
		input    service.GenerateInput
		newSvc   func(gens store.GenerationStore, opts service.GenerationOptions) service.GenerationService
		generate func() (*service.GenerateResult, error)
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = store.NewStores(kv.NewMemoryStore())
		client = &mockLLM{}
		events = &mockProducer{}
		user = &model.User{ID: "user_1", Email: "xiaohong@example.com", Name: "小红"}
		input = service.GenerateInput{
			ProductName:    "保湿精华",
			SelectedTags:   []string{"moisturizing", "repair"},
			ContentType:    model.ContentTypeSingle,
			TargetAudience: model.TargetAudienceStudent,
			WritingStyle:   model.WritingStyleCasual,
		}
		_, err := stores.Profiles().Create(ctx, &model.UserProfile{ID: user.ID, Email: user.Email, Name: user.Name})
		Expect(err).NotTo(HaveOccurred())

		newSvc = func(gens store.GenerationStore, opts service.GenerationOptions) service.GenerationService {
			return service.NewGenerationService(client, gens, stores.Profiles(), events, nil, opts)
		}
		generate = func() (*service.GenerateResult, error) {
			return newSvc(stores.Generations(), service.GenerationOptions{}).Generate(ctx, user, input)
		}
	})

	expectThreeVariants := func(variants []model.CopyVariant) {
		Expect(variants).To(HaveLen(model.VariantCount))
		for i, v := range variants {
			Expect(v.ID).To(Equal(i + 1))
			Expect(v.Title).NotTo(BeEmpty())
			Expect(v.Content).NotTo(BeEmpty())
			Expect(v.Tags).To(Equal(input.SelectedTags))
			Expect(v.Style).To(Equal(model.WritingStyleCasual))
		}
	}

	Describe("prompting", func() {
		It("sends the audience, style and type labels and the product with its tags", func() {
			client.completeFn = replyWith("版本一\n内容")
			_, err := generate()
			Expect(err).NotTo(HaveOccurred())

			Expect(client.calls()).To(Equal(1))
			req := client.requests[0]
			Expect(req.SystemPrompt).To(ContainSubstring("目标用户：学生群体"))
			Expect(req.SystemPrompt).To(ContainSubstring("文案风格：轻松愉快型，语言活泼有趣"))
			Expect(req.SystemPrompt).To(ContainSubstring("内容类型：单品推荐"))
			Expect(req.UserPrompt).To(Equal("产品名称：保湿精华\n选中标签：moisturizing, repair\n\n请为这个产品生成3个不同版本的小红书种草文案。"))
			Expect(req.Schema).To(BeNil())
		})

		It("requests a schema when structured output is enabled", func() {
			client.completeFn = replyWith(`{"variants":[{"title":"a","content":"b","tags":[],"compliance":"A"}]}`)
			svc := newSvc(stores.Generations(), service.GenerationOptions{StructuredOutput: true})
			_, err := svc.Generate(ctx, user, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(client.requests[0].SchemaName).To(Equal("copy_variants"))
			Expect(client.requests[0].Schema).NotTo(BeNil())
			Expect(client.requests[0].SystemPrompt).To(ContainSubstring(`"variants"`))
		})
	})

	Describe("parsing the model reply", func() {
		It("prefers structured JSON", func() {
			client.completeFn = replyWith(`[
				{"title":"早八救星","content":"每天早上用它打底"},
				{"标题":"宿舍好物","正文":"平价又好用"},
				{"title":"回购清单","content":"已经第三瓶了"}
			]`)

			res, err := generate()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Source).To(Equal(service.ParseSourceJSON))
			expectThreeVariants(res.Generation.Variants)
			Expect(res.Generation.Variants[0].Title).To(Equal("早八救星"))
			Expect(res.Generation.Variants[1].Title).To(Equal("宿舍好物"))
			Expect(res.Generation.Variants[1].Content).To(Equal("平价又好用"))
			for _, v := range res.Generation.Variants {
				Expect(v.Compliance).To(Equal(model.ComplianceGradeA))
			}
			Expect(res.Generation.FallbackUsed).To(BeFalse())
			Expect(res.Notice).To(BeEmpty())
		})

		It("accepts an envelope object inside a fenced block and truncates to three", func() {
			client.completeFn = replyWith("好的，以下是文案：\n```json\n{\"versions\":[" +
				`{"title":"1","content":"一"},{"title":"2","content":"二"},{"title":"3","content":"三"},{"title":"4","content":"四"}` +
				"]}\n```")

			res, err := generate()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Source).To(Equal(service.ParseSourceJSON))
			expectThreeVariants(res.Generation.Variants)
			Expect(res.Generation.Variants[2].Content).To(Equal("三"))
		})

		It("splits on version markers and pads the rest", func() {
			client.completeFn = replyWith("好的！\n\n版本一：\n\n早八必备\n\n真的好用\n\n第二版\n宿舍党也能冲")

			res, err := generate()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Source).To(Equal(service.ParseSourceMarkers))
			expectThreeVariants(res.Generation.Variants)
			Expect(res.Generation.Variants[0].Title).To(Equal("版本1"))
			Expect(res.Generation.Variants[0].Content).To(Equal("早八必备\n真的好用"))
			Expect(res.Generation.Variants[1].Content).To(Equal("宿舍党也能冲"))
			Expect(res.Generation.Variants[2].Title).To(Equal("版本3"))
			Expect(res.Generation.Variants[2].Content).To(HavePrefix("保湿精华真的是我最近的心头好！✨"))
		})

		It("recognises English version markers", func() {
			client.completeFn = replyWith("Version 1\nfirst\nVersion 2\nsecond\nversion 3\nthird")

			res, err := generate()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Source).To(Equal(service.ParseSourceMarkers))
			Expect(res.Generation.Variants[2].Content).To(Equal("third"))
		})

		It("falls back to the whole reply as one variant", func() {
			client.completeFn = replyWith("这是一段没有任何版本标记的文案。")

			res, err := generate()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Source).To(Equal(service.ParseSourceWhole))
			expectThreeVariants(res.Generation.Variants)
			Expect(res.Generation.Variants[0].Title).To(Equal("AI生成版本"))
			Expect(res.Generation.Variants[0].Content).To(Equal("这是一段没有任何版本标记的文案。"))
			Expect(res.Generation.Variants[1].Title).To(Equal("版本2"))
		})
	})

	Describe("when the model fails", func() {
		BeforeEach(func() {
			client.completeFn = func(context.Context, llm.Request) (*llm.Response, error) {
				return nil, errors.New("dial tcp: connection refused")
			}
		})

		It("serves the fallback set with variant 2 graded B and records fallback_used", func() {
			res, err := generate()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Source).To(Equal(service.ParseSourceFallback))
			Expect(res.Notice).To(Equal("使用了备用模板生成内容"))

			variants := res.Generation.Variants
			expectThreeVariants(variants)
			Expect(variants[0].Compliance).To(Equal(model.ComplianceGradeA))
			Expect(variants[1].Compliance).To(Equal(model.ComplianceGradeB))
			Expect(variants[2].Compliance).To(Equal(model.ComplianceGradeA))
			Expect(variants[1].Content).To(ContainSubstring("保湿精华真的是我最近的心头好💕"))
			for _, v := range variants {
				Expect(v.Content).NotTo(ContainSubstring("{product}"))
			}

			stored, err := stores.Generations().GetByID(ctx, res.Generation.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.FallbackUsed).To(BeTrue())
			Expect(stored.Variants).To(Equal(variants))
			Expect(stored.UserID).To(Equal(user.ID))
		})

		It("still counts the generation and publishes an event", func() {
			res, err := generate()
			Expect(err).NotTo(HaveOccurred())

			p, err := stores.Profiles().Get(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.UsageStats.TotalGenerations).To(BeEquivalentTo(1))

			Expect(events.published()).To(ContainElement(SatisfyAll(
				HaveField("Type", queue.EventTypeGenerationCompleted),
				HaveField("RefID", res.Generation.ID),
				HaveField("FallbackUsed", true),
			)))
		})

		It("treats provider not configured the same way", func() {
			client.completeFn = nil
			res, err := generate()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Generation.FallbackUsed).To(BeTrue())
		})
	})

	It("bounds the model call with the configured timeout", func() {
		client.completeFn = func(ctx context.Context, _ llm.Request) (*llm.Response, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		svc := newSvc(stores.Generations(), service.GenerationOptions{Timeout: 20 * time.Millisecond})

		res, err := svc.Generate(ctx, user, input)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Generation.FallbackUsed).To(BeTrue())
	})

	It("keeps working after the caller goes away", func() {
		callerCtx, cancel := context.WithCancel(ctx)
		cancel()

		client.completeFn = func(ctx context.Context, _ llm.Request) (*llm.Response, error) {
			Expect(ctx.Err()).NotTo(HaveOccurred())
			return &llm.Response{Text: "版本一\n好"}, nil
		}
		res, err := newSvc(stores.Generations(), service.GenerationOptions{}).Generate(callerCtx, user, input)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Generation.FallbackUsed).To(BeFalse())

		_, err = stores.Generations().GetByID(ctx, res.Generation.ID)
		Expect(err).NotTo(HaveOccurred())
	})

	It("stores one record per call when calls land in the same millisecond", func() {
		client.completeFn = replyWith("版本一\n好")
		svc := newSvc(stores.Generations(), service.GenerationOptions{})

		ids := map[string]bool{}
		for i := 0; i < 20; i++ {
			res, err := svc.Generate(ctx, user, input)
			Expect(err).NotTo(HaveOccurred())
			ids[res.Generation.ID] = true
		}
		Expect(ids).To(HaveLen(20))

		list, err := stores.Generations().ListByUser(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(20))
		for _, g := range list {
			Expect(ids).To(HaveKey(g.ID))
		}
	})

	It("returns the variants even when the record cannot be stored", func() {
		client.completeFn = replyWith("版本一\n好")
		failing := &mockGenerationStore{createFn: func(context.Context, *model.Generation) error {
			return errors.New("redis: connection pool timeout")
		}}

		res, err := newSvc(failing, service.GenerationOptions{}).Generate(ctx, user, input)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Generation.ID).To(HavePrefix("generation:user_1:"))
		Expect(res.Generation.Variants).To(HaveLen(3))
	})

	DescribeTable("rejects incomplete or unknown input without calling the model",
		func(mutate func(in *service.GenerateInput), field string) {
			mutate(&input)
			res, err := generate()

			Expect(res).To(BeNil())
			Expect(errors.Is(err, service.ErrValidation)).To(BeTrue())
			var verr *service.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Field).To(Equal(field))
			Expect(client.calls()).To(BeZero())

			list, err := stores.Generations().ListByUser(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		},
		Entry("missing product name", func(in *service.GenerateInput) { in.ProductName = "" }, "productName"),
		Entry("blank product name", func(in *service.GenerateInput) { in.ProductName = "   " }, "productName"),
		Entry("missing content type", func(in *service.GenerateInput) { in.ContentType = model.ContentType("") }, "contentType"),
		Entry("missing audience", func(in *service.GenerateInput) { in.TargetAudience = model.TargetAudience("") }, "targetAudience"),
		Entry("missing style", func(in *service.GenerateInput) { in.WritingStyle = model.WritingStyle("") }, "writingStyle"),
		Entry("unknown content type", func(in *service.GenerateInput) { in.ContentType = model.ContentType("listicle") }, "contentType"),
		Entry("unknown audience", func(in *service.GenerateInput) { in.TargetAudience = model.TargetAudience("retiree") }, "targetAudience"),
		Entry("unknown style", func(in *service.GenerateInput) { in.WritingStyle = model.WritingStyle("poetic") }, "writingStyle"),
	)

	It("drops blank tags before prompting", func() {
		input.SelectedTags = []string{"moisturizing", "  ", ""}
		client.completeFn = replyWith("版本一\n好")

		res, err := generate()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Generation.SelectedTags).To(Equal([]string{"moisturizing"}))
		Expect(strings.Count(client.requests[0].UserPrompt, ",")).To(BeZero())
	})
})
