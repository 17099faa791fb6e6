package router

import (
	"github.com/gin-gonic/gin"

	"github.com/BitmanAlan/xiaohongshu/internal/http/handler"
	"github.com/BitmanAlan/xiaohongshu/internal/http/middleware"
	"github.com/BitmanAlan/xiaohongshu/internal/metrics"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
)

type RouterConfig struct {
	// Prefix is the leading path segment for every API route, without slashes.
	Prefix    string
	Version   string
	AIService string
	EnvCheck  map[string]bool
	Store     handler.Pinger
	Metrics   *metrics.Metrics
	RateLimit RateLimitConfig
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := router.Group("/" + cfg.Prefix)

	healthHandler := handler.NewHealthHandler(cfg.Store, cfg.AIService, cfg.Version, cfg.EnvCheck)
	api.GET("/health", healthHandler.Health)

	authHandler := handler.NewAuthHandler(services.Auth())
	AuthRouter(api.Group("/auth"), authHandler)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(services.Auth()))
	{
		// only the endpoints that call the model are rate limited
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.Metrics)

		generationHandler := handler.NewGenerationHandler(services.Generation())
		GenerationRouter(protected, generationHandler, limiter.Middleware())

		libraryHandler := handler.NewLibraryHandler(services.Library())
		LibraryRouter(protected.Group("/library"), libraryHandler)

		feedbackHandler := handler.NewFeedbackHandler(services.Feedback())
		FeedbackRouter(protected.Group("/feedback"), feedbackHandler)

		styleHandler := handler.NewStyleHandler(services.Style())
		StyleRouter(protected.Group("/style"), styleHandler, limiter.Middleware())

		profileHandler := handler.NewProfileHandler(services.Profile())
		ProfileRouter(protected.Group("/profile"), profileHandler)

		complianceHandler := handler.NewComplianceHandler(services.Compliance())
		ComplianceRouter(protected.Group("/compliance"), complianceHandler)
	}
}
