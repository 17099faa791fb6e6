package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/BitmanAlan/xiaohongshu/core/kv"
	"github.com/BitmanAlan/xiaohongshu/internal/compliance"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

var _ = Describe("ComplianceService", func() {
	var (
		ctx    context.Context
		stores *store.Stores
		svc    service.ComplianceService
		user   *model.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = store.NewStores(kv.NewMemoryStore())
		svc = service.NewComplianceService(compliance.New(), stores.Generations())
		user = &model.User{ID: "user_1"}
	})

	It("reviews free text", func() {
		reports, err := svc.Review(ctx, user, "", "学生党无压力，冲鸭！")
		Expect(err).NotTo(HaveOccurred())
		Expect(reports).To(HaveLen(1))
		Expect(reports[0].VariantID).To(Equal(1))
		Expect(reports[0].Title).To(Equal("自定义文案"))
		Expect(reports[0].Issues).To(HaveLen(2))
		Expect(reports[0].Score).To(Equal(78))
		Expect(reports[0].Grade).To(Equal(model.ComplianceGradeB))
	})

	It("reviews every variant of an owned generation", func() {
		g := &model.Generation{
			UserID:    user.ID,
			CreatedAt: time.Date(2026, 3, 8, 10, 30, 0, 0, time.UTC),
			Variants: []model.CopyVariant{
				{ID: 1, Title: "a", Content: "好用"},
				{ID: 2, Title: "b", Content: "全网第一，最好用"},
			},
		}
		Expect(stores.Generations().Create(ctx, g)).To(Succeed())

		reports, err := svc.Review(ctx, user, g.ID, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(reports).To(HaveLen(2))
		Expect(reports[0].Grade).To(Equal(model.ComplianceGradeA))
		Expect(reports[1].VariantID).To(Equal(2))
		Expect(reports[1].Issues).To(HaveLen(2))

		_, err = svc.Review(ctx, &model.User{ID: "user_2"}, g.ID, "")
		Expect(err).To(MatchError(service.ErrNotFound))
	})

	It("requires something to review", func() {
		_, err := svc.Review(ctx, user, "", "  ")
		Expect(err).To(MatchError(service.ErrValidation))
	})
})
