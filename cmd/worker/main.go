package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BitmanAlan/xiaohongshu/common/logger"
	"github.com/BitmanAlan/xiaohongshu/common/otel"
	"github.com/BitmanAlan/xiaohongshu/core/config"
	"github.com/BitmanAlan/xiaohongshu/core/kv"
	"github.com/BitmanAlan/xiaohongshu/internal/queue"
	"github.com/BitmanAlan/xiaohongshu/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger.Setup(cfg)

	slog.InfoContext(ctx, "copywriter worker starting",
		"env", cfg.Env,
		"stream", cfg.Store.EventStream,
		"consumer_group", cfg.Worker.Group,
		"consumer_name", cfg.Worker.Consumer)

	redisOpts, err := redis.ParseURL(cfg.Store.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	// closes redisClient too
	kvStore := kv.NewRedisStore(redisClient)
	defer kvStore.Close()
	slog.InfoContext(ctx, "redis connected")

	consumer, err := queue.NewRedisConsumer(ctx, redisClient, queue.ConsumerConfig{
		Stream:       cfg.Store.EventStream,
		Group:        cfg.Worker.Group,
		Consumer:     cfg.Worker.Consumer,
		DLQStream:    cfg.Worker.DLQStream,
		BatchSize:    cfg.Worker.BatchSize,
		Block:        cfg.Worker.Block,
		RequeueDelay: cfg.Worker.RequeueDelay,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	stats := worker.NewStatsProcessor(kvStore)
	w := worker.New(consumer, stats, worker.Config{
		MaxAttempts: cfg.Worker.MaxAttempts,
	})

	reclaimer := worker.NewReclaimer(consumer, w.Handle, worker.ReclaimerConfig{
		MinIdle:  cfg.Worker.ReclaimMinIdle,
		Interval: cfg.Worker.ReclaimInterval,
	})

	go func() {
		if err := w.Run(ctx); err != nil {
			slog.ErrorContext(ctx, "worker stopped", "error", err)
		}
	}()
	go reclaimer.Run(ctx)

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		reclaimer.Stop()
		w.Stop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case <-stopped:
	}

	if today, err := stats.Daily(shutdownCtx, time.Now()); err == nil {
		slog.InfoContext(ctx, "daily stats", "date", today.Date, "events", today.Events, "fallbacks", today.Fallbacks)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
 ██████╗ ██████╗ ██████╗ ██╗   ██╗    ██╗    ██╗ ██████╗ ██████╗ ██╗  ██╗███████╗██████╗
██╔════╝██╔═══██╗██╔══██╗╚██╗ ██╔╝    ██║    ██║██╔═══██╗██╔══██╗██║ ██╔╝██╔════╝██╔══██╗
██║     ██║   ██║██████╔╝ ╚████╔╝     ██║ █╗ ██║██║   ██║██████╔╝█████╔╝ █████╗  ██████╔╝
██║     ██║   ██║██╔═══╝   ╚██╔╝      ██║███╗██║██║   ██║██╔══██╗██╔═██╗ ██╔══╝  ██╔══██╗
╚██████╗╚██████╔╝██║        ██║       ╚███╔███╔╝╚██████╔╝██║  ██║██║  ██╗███████╗██║  ██║
 ╚═════╝ ╚═════╝ ╚═╝        ╚═╝        ╚══╝╚══╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝
`
