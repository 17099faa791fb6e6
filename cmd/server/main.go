package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/BitmanAlan/xiaohongshu/common/id"
	"github.com/BitmanAlan/xiaohongshu/common/llm"
	"github.com/BitmanAlan/xiaohongshu/common/logger"
	"github.com/BitmanAlan/xiaohongshu/common/otel"
	"github.com/BitmanAlan/xiaohongshu/core/config"
	"github.com/BitmanAlan/xiaohongshu/core/db"
	"github.com/BitmanAlan/xiaohongshu/core/kv"
	"github.com/BitmanAlan/xiaohongshu/internal/http/middleware"
	httprouter "github.com/BitmanAlan/xiaohongshu/internal/http/router"
	"github.com/BitmanAlan/xiaohongshu/internal/metrics"
	"github.com/BitmanAlan/xiaohongshu/internal/queue"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
	"github.com/BitmanAlan/xiaohongshu/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// logger.Setup reads the OTel provider in production
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "copywriter starting",
		"env", cfg.Env,
		"store", cfg.Store.Backend,
		"ai_provider", cfg.AI.Provider)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	storage, err := openBackend(ctx, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer storage.close()

	// shares the backend's redis client, closed with it
	eventProducer := storage.producer(cfg.Store.EventStream)

	llmClient, err := llm.New(llm.Config{
		Provider:    cfg.AI.Provider,
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create llm client", "error", err)
		os.Exit(1)
	}
	if !cfg.AI.Enabled() {
		slog.WarnContext(ctx, "AI_API_KEY not set, every generation uses fallback templates")
	}

	m := metrics.New()
	stores := store.NewStores(storage.kv)
	identity := service.NewIdentityProvider(cfg.WorkOS, stores)
	slog.InfoContext(ctx, "identity provider selected", "provider", identity.Name())

	services := service.NewServices(stores, llmClient, identity, eventProducer, m, cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, storage.kv, llmClient, m)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// generation may wait for the full AI timeout
		WriteTimeout: cfg.AI.Timeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port, "prefix", cfg.ServicePrefix)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

type backend struct {
	kv          kv.Store
	redisClient *redis.Client
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		redisOpts, err := redis.ParseURL(cfg.Store.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		slog.InfoContext(ctx, "redis connected", "stream", cfg.Store.EventStream)
		return &backend{kv: kv.NewRedisStore(redisClient), redisClient: redisClient}, nil

	case config.StoreBackendPostgres:
		database, err := db.New(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		kvStore, err := kv.NewPostgresStore(database, cfg.Store.KVTable)
		if err != nil {
			database.Close()
			return nil, err
		}
		if err := kv.EnsureSchema(ctx, kvStore); err != nil {
			database.Close()
			return nil, err
		}
		slog.InfoContext(ctx, "database connected", "table", cfg.Store.KVTable)
		return &backend{kv: kvStore}, nil

	default:
		slog.WarnContext(ctx, "using in-memory store, data is lost on restart")
		return &backend{kv: kv.NewMemoryStore()}, nil
	}
}

// producer publishes to the Redis stream when Redis is the backend.
func (b *backend) producer(stream string) queue.Producer {
	if b.redisClient != nil {
		return queue.NewRedisProducer(b.redisClient, stream, slog.Default())
	}
	return queue.NewNoopProducer(slog.Default())
}

func (b *backend) close() {
	if err := b.kv.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}
}

func setupRouter(cfg config.Config, services *service.Services, kvStore kv.Store, client llm.Client, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	// OTel span first so recovery and logging see the trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	// request id ahead of recovery so a panic's log line carries it
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger("/metrics", "/"+cfg.ServicePrefix+"/health"))
	router.Use(middleware.Metrics(m))

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		Prefix:    cfg.ServicePrefix,
		Version:   cfg.Version,
		AIService: client.Provider() + ":" + client.Model(),
		EnvCheck: map[string]bool{
			"ai_api_key":    cfg.AI.APIKey != "",
			"jwt_secret":    cfg.Auth.JWTSecret != "",
			"workos":        cfg.WorkOS.Enabled(),
			"store_backend": cfg.Store.Backend != config.StoreBackendMemory,
		},
		Store:   kvStore,
		Metrics: m,
		RateLimit: httprouter.RateLimitConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		},
	})

	return router
}

const banner = `
 ██████╗ ██████╗ ██████╗ ██╗   ██╗██╗    ██╗██████╗ ██╗████████╗███████╗██████╗
██╔════╝██╔═══██╗██╔══██╗╚██╗ ██╔╝██║    ██║██╔══██╗██║╚══██╔══╝██╔════╝██╔══██╗
██║     ██║   ██║██████╔╝ ╚████╔╝ ██║ █╗ ██║██████╔╝██║   ██║   █████╗  ██████╔╝
██║     ██║   ██║██╔═══╝   ╚██╔╝  ██║███╗██║██╔══██╗██║   ██║   ██╔══╝  ██╔══██╗
╚██████╗╚██████╔╝██║        ██║   ╚███╔███╔╝██║  ██║██║   ██║   ███████╗██║  ██║
 ╚═════╝ ╚═════╝ ╚═╝        ╚═╝    ╚══╝╚══╝ ╚═╝  ╚═╝╚═╝   ╚═╝   ╚══════╝╚═╝  ╚═╝
`
