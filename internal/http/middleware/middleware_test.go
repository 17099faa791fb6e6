package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/BitmanAlan/xiaohongshu/common/logger"
	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/http/middleware"
	"github.com/BitmanAlan/xiaohongshu/internal/metrics"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
)

type mockAuthService struct {
	authenticateFn func(ctx context.Context, token string) (*model.User, error)
}

func (m *mockAuthService) SignUp(context.Context, string, string, string) (*model.User, error) {
	return nil, nil
}

func (m *mockAuthService) SignIn(context.Context, string, string) (*service.Session, error) {
	return nil, nil
}

func (m *mockAuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, token)
	}
	return nil, service.ErrUnauthenticated
}

func get(router *gin.Engine, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var _ = Describe("RequireAuth", func() {
	var (
		router  *gin.Engine
		auth    *mockAuthService
		reached bool
		seen    *model.User
	)

	BeforeEach(func() {
		reached, seen = false, nil
		auth = &mockAuthService{}
		router = gin.New()
		router.GET("/", middleware.RequireAuth(auth), func(c *gin.Context) {
			reached = true
			seen = middleware.GetUser(c.Request.Context())
			c.Status(http.StatusNoContent)
		})
	})

	DescribeTable("rejects requests without a usable bearer token",
		func(header string) {
			h := http.Header{}
			if header != "" {
				h.Set("Authorization", header)
			}
			w := get(router, h)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(reached).To(BeFalse())
		},
		Entry("no header", ""),
		Entry("basic scheme", "Basic dXNlcjpwYXNz"),
		Entry("empty bearer", "Bearer "),
		Entry("token rejected", "Bearer invalid"),
	)

	It("attaches the user for a valid token", func() {
		auth.authenticateFn = func(_ context.Context, token string) (*model.User, error) {
			Expect(token).To(Equal("good"))
			return &model.User{ID: "user_1"}, nil
		}

		w := get(router, http.Header{"Authorization": {"bearer good"}})
		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(seen).To(Equal(&model.User{ID: "user_1"}))
	})

	It("returns 500 when verification itself fails", func() {
		auth.authenticateFn = func(context.Context, string) (*model.User, error) {
			return nil, errors.New("clock exploded")
		}

		w := get(router, http.Header{"Authorization": {"Bearer good"}})
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})

var _ = Describe("RateLimiter", func() {
	It("allows the burst then rejects with 429 and counts it", func() {
		m := metrics.New()
		limiter := middleware.NewRateLimiter(0.001, 2, m)

		router := gin.New()
		router.GET("/", func(c *gin.Context) {
			ctx := middleware.WithUser(c.Request.Context(), &model.User{ID: c.GetHeader("X-User")})
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		}, limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

		alice := http.Header{"X-User": {"alice"}}
		Expect(get(router, alice).Code).To(Equal(http.StatusNoContent))
		Expect(get(router, alice).Code).To(Equal(http.StatusNoContent))
		Expect(get(router, alice).Code).To(Equal(http.StatusTooManyRequests))

		Expect(get(router, http.Header{"X-User": {"bob"}}).Code).To(Equal(http.StatusNoContent))

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(rec.Body.String()).To(ContainSubstring("copywriter_http_rate_limited_total 1"))
	})

	It("sweeps idle buckets at most once per idle window", func() {
		now := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
		limiter := middleware.NewRateLimiter(1, 1, nil).WithClock(func() time.Time { return now })

		for i := range 10_000 {
			limiter.Allow(fmt.Sprintf("a%d", i))
		}
		// the first full map sweeps, but nothing is idle yet
		now = now.Add(5 * time.Minute)
		for i := range 10_000 {
			limiter.Allow(fmt.Sprintf("b%d", i))
		}
		Expect(limiter.Len()).To(Equal(20_000))

		// the a* buckets are idle, but the last sweep is too recent
		now = now.Add(6 * time.Minute)
		limiter.Allow("c")
		Expect(limiter.Len()).To(Equal(20_001))

		now = now.Add(5 * time.Minute)
		limiter.Allow("d")
		Expect(limiter.Len()).To(Equal(2))
	})

	It("is disabled by a zero rate", func() {
		limiter := middleware.NewRateLimiter(0, 1, nil)
		router := gin.New()
		router.GET("/", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

		for range 5 {
			Expect(get(router, nil).Code).To(Equal(http.StatusNoContent))
		}
	})
})

var _ = Describe("RequestID", func() {
	var (
		router *gin.Engine
		fields logger.LogFields
	)

	BeforeEach(func() {
		router = gin.New()
		router.GET("/", middleware.RequestID(), func(c *gin.Context) {
			fields = logger.GetLogFields(c.Request.Context())
			c.Status(http.StatusNoContent)
		})
	})

	It("keeps the caller's id", func() {
		w := get(router, http.Header{dto.RequestIDHeader: {"req-123"}})
		Expect(w.Header().Get(dto.RequestIDHeader)).To(Equal("req-123"))
		Expect(*fields.RequestID).To(Equal("req-123"))
	})

	It("mints one when absent", func() {
		w := get(router, nil)
		Expect(w.Header().Get(dto.RequestIDHeader)).To(HaveLen(36))
		Expect(fields.RequestID).NotTo(BeNil())
	})
})

var _ = Describe("Recovery", func() {
	It("turns a panic into a 500", func() {
		router := gin.New()
		router.Use(middleware.Recovery())
		router.GET("/", func(*gin.Context) { panic("boom") })

		w := get(router, nil)
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(MatchJSON(`{"error":"服务器内部错误"}`))
	})
})

var _ = Describe("Recovery with a written response", func() {
	It("keeps the status already sent", func() {
		router := gin.New()
		router.Use(middleware.Recovery())
		router.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, "partial")
			panic("late")
		})

		w := get(router, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("partial"))
	})
})

var _ = Describe("Logger", func() {
	var (
		buf    *bytes.Buffer
		router *gin.Engine
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		previous := slog.Default()
		slog.SetDefault(slog.New(slog.NewJSONHandler(buf, nil)))
		DeferCleanup(func() { slog.SetDefault(previous) })

		router = gin.New()
		router.Use(middleware.Logger("/health"))
		router.GET("/health", func(c *gin.Context) {
			if c.Query("fail") != "" {
				c.Status(http.StatusServiceUnavailable)
				return
			}
			c.Status(http.StatusOK)
		})
		router.GET("/library", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })
	})

	serve := func(target string) {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	It("skips successful quiet routes", func() {
		serve("/health")
		Expect(buf.Len()).To(BeZero())
	})

	It("logs failing quiet routes at error without the query", func() {
		serve("/health?fail=1")
		Expect(buf.String()).To(ContainSubstring(`"level":"ERROR"`))
		Expect(buf.String()).To(ContainSubstring(`"path":"/health"`))
		Expect(buf.String()).NotTo(ContainSubstring("fail=1"))
	})

	It("logs rejected sessions at info", func() {
		serve("/library")
		Expect(buf.String()).To(ContainSubstring(`"msg":"request rejected"`))
		Expect(buf.String()).To(ContainSubstring(`"status":401`))
	})
})
