package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/BitmanAlan/xiaohongshu/common/logger"
	"github.com/BitmanAlan/xiaohongshu/core/kv"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

var _ = Describe("ProfileService", func() {
	var (
		ctx    context.Context
		stores *store.Stores
		svc    service.ProfileService
		user   *model.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = store.NewStores(kv.NewMemoryStore())
		svc = service.NewProfileService(stores.Profiles())
		user = &model.User{ID: "user_1", Email: "a@b.com", Name: "小红"}
	})

	It("reports a missing profile as not found", func() {
		_, err := svc.Get(ctx, user)
		Expect(err).To(MatchError(service.ErrNotFound))

		_, err = svc.Update(ctx, user, model.ProfileUpdate{Name: logger.Ptr("x")})
		Expect(err).To(MatchError(service.ErrNotFound))
	})

	Context("with a profile", func() {
		BeforeEach(func() {
			_, err := stores.Profiles().Create(ctx, &model.UserProfile{ID: user.ID, Email: user.Email, Name: user.Name})
			Expect(err).NotTo(HaveOccurred())
		})

		It("merges style preferences and trims the name", func() {
			_, err := svc.Update(ctx, user, model.ProfileUpdate{StylePreferences: map[string]any{"tone": "casual"}})
			Expect(err).NotTo(HaveOccurred())

			p, err := svc.Update(ctx, user, model.ProfileUpdate{
				Name:             logger.Ptr("  小红书达人 "),
				StylePreferences: map[string]any{"emoji": true},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name).To(Equal("小红书达人"))
			Expect(p.StylePreferences).To(Equal(map[string]any{"tone": "casual", "emoji": true}))
			Expect(p.UpdatedAt).NotTo(BeNil())
		})

		It("rejects a blank name", func() {
			_, err := svc.Update(ctx, user, model.ProfileUpdate{Name: logger.Ptr("   ")})
			Expect(err).To(MatchError(service.ErrValidation))

			p, err := svc.Get(ctx, user)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name).To(Equal("小红"))
		})
	})
})
