package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/BitmanAlan/xiaohongshu/common/llm"
	"github.com/BitmanAlan/xiaohongshu/core/config"
	"github.com/BitmanAlan/xiaohongshu/core/kv"
	"github.com/BitmanAlan/xiaohongshu/internal/client"
	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/http/middleware"
	"github.com/BitmanAlan/xiaohongshu/internal/http/router"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/queue"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

type offlineLLM struct{}

func (offlineLLM) Complete(context.Context, llm.Request) (*llm.Response, error) {
	return nil, llm.ErrNotConfigured
}

func (offlineLLM) Model() string    { return "" }
func (offlineLLM) Provider() string { return llm.ProviderOpenAI }

var _ = Describe("Client", func() {
	var (
		ctx    context.Context
		server *httptest.Server
		api    *client.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores := store.NewStores(kv.NewMemoryStore())
		cfg := config.Config{
			Auth: config.AuthConfig{JWTSecret: "test-secret", Issuer: "copywriter", TokenTTL: time.Hour},
			AI:   config.AIConfig{Timeout: time.Second},
		}
		services := service.NewServices(
			stores,
			offlineLLM{},
			service.NewLocalIdentity(stores.Credentials()),
			queue.NewNoopProducer(nil),
			nil,
			cfg,
		)

		engine := gin.New()
		engine.Use(middleware.Recovery(), middleware.RequestID())
		router.SetupRoutes(engine, services, router.RouterConfig{
			Prefix:  "copywriter",
			Version: "2.0",
			Store:   stores.KV(),
		})
		server = httptest.NewServer(engine)
		DeferCleanup(server.Close)

		var err error
		api, err = client.New(client.Config{BaseURL: server.URL + "/copywriter/"})
		Expect(err).NotTo(HaveOccurred())
	})

	signIn := func() *client.Client {
		_, err := api.SignUp(ctx, dto.SignUpRequest{Email: "a@example.com", Password: "secret123", Name: "小红"})
		Expect(err).NotTo(HaveOccurred())

		session, err := api.SignIn(ctx, "a@example.com", "secret123")
		Expect(err).NotTo(HaveOccurred())
		Expect(session.AccessToken).NotTo(BeEmpty())
		Expect(session.ExpiresIn).To(BeEquivalentTo(3600))
		return api.WithToken(session.AccessToken)
	}

	It("requires a base URL", func() {
		_, err := client.New(client.Config{})
		Expect(err).To(HaveOccurred())
	})

	It("reports a missing token as an auth error", func() {
		_, err := api.Library(ctx)

		Expect(client.IsAuth(err)).To(BeTrue())
		var apiErr *client.APIError
		Expect(errors.As(err, &apiErr)).To(BeTrue())
		Expect(apiErr.Message).NotTo(BeEmpty())
	})

	It("decodes sign-in failures", func() {
		_, err := api.SignIn(ctx, "nobody@example.com", "secret123")

		Expect(client.IsAuth(err)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("邮箱或密码错误"))
	})

	It("does not leak the token into the unauthenticated client", func() {
		authed := signIn()
		Expect(authed.Token()).NotTo(BeEmpty())
		Expect(api.Token()).To(BeEmpty())
	})

	It("runs the generate, save and feedback flow", func() {
		authed := signIn()

		gen, err := authed.Generate(ctx, dto.GenerateRequest{
			ProductName:    "保湿精华",
			ContentType:    model.ContentTypeSingle,
			TargetAudience: model.TargetAudienceStudent,
			WritingStyle:   model.WritingStyleCasual,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(gen.Content).To(HaveLen(model.VariantCount))
		Expect(gen.Content[1].Compliance).To(Equal(model.ComplianceGradeB))
		Expect(gen.Notice).NotTo(BeEmpty())

		Expect(authed.Save(ctx, gen.GenerationID, 2)).To(Succeed())
		Expect(authed.Feedback(ctx, dto.FeedbackRequest{
			GenerationID: gen.GenerationID,
			Satisfaction: model.SatisfactionLike,
		})).To(Succeed())

		items, err := authed.Library(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(1))
		Expect(items[0].ID).To(Equal(gen.GenerationID))

		profile, err := authed.Profile(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(profile.UsageStats.TotalFeedback).To(BeEquivalentTo(1))

		reports, err := authed.ComplianceReview(ctx, dto.ComplianceReviewRequest{GenerationID: gen.GenerationID})
		Expect(err).NotTo(HaveOccurred())
		Expect(reports).To(HaveLen(model.VariantCount))
	})

	It("maps validation failures to 400", func() {
		authed := signIn()

		_, err := authed.Generate(ctx, dto.GenerateRequest{ContentType: model.ContentTypeSingle})
		Expect(client.IsStatus(err, http.StatusBadRequest)).To(BeTrue())
		Expect(client.IsAuth(err)).To(BeFalse())

		err = authed.Save(ctx, "generation:someone:1", 1)
		Expect(client.IsStatus(err, http.StatusNotFound)).To(BeTrue())
	})

	It("updates the profile", func() {
		authed := signIn()
		name := "新名字"

		profile, err := authed.UpdateProfile(ctx, dto.UpdateProfileRequest{Name: &name})
		Expect(err).NotTo(HaveOccurred())
		Expect(profile.Name).To(Equal(name))
		Expect(profile.Email).To(Equal("a@example.com"))
	})

	It("trains and lists style sessions", func() {
		authed := signIn()

		analysis, err := authed.AnalyzeStyle(ctx, "姐妹们冲！这个真的绝了", "beauty")
		Expect(err).NotTo(HaveOccurred())
		Expect(analysis).To(HaveKey("analyzed_at"))

		sessions, err := authed.StyleProfile(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(sessions.TotalSessions).To(Equal(1))
	})

	It("reads health", func() {
		health, err := api.Health(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(health.Status).To(Equal("ok"))
		Expect(health.Version).To(Equal("2.0"))
	})

	It("returns the body of a degraded health check", func() {
		degraded := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"degraded","store":"down"}`))
		}))
		DeferCleanup(degraded.Close)

		c, err := client.New(client.Config{BaseURL: degraded.URL})
		Expect(err).NotTo(HaveOccurred())

		health, err := c.Health(ctx)
		Expect(client.IsStatus(err, http.StatusServiceUnavailable)).To(BeTrue())
		Expect(health).NotTo(BeNil())
		Expect(health.Status).To(Equal("degraded"))
	})
})
