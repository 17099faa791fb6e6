package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/BitmanAlan/xiaohongshu/core/db"
)

type Config struct {
	OTel          OTelConfig
	WorkOS        WorkOSConfig
	Auth          AuthConfig
	AI            AIConfig
	Store         StoreConfig
	RateLimit     RateLimitConfig
	Worker        WorkerConfig
	Env           string
	LogLevel      string
	Port          string
	ServicePrefix string
	Version       string
	DB            db.Config
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
	Environment    string
	// SampleRatio is the fraction of root spans kept; children follow their parent.
	SampleRatio float64
}

type WorkOSConfig struct {
	APIKey   string
	ClientID string
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

// AIConfig configures the chat-completion provider. The default endpoint is
// Zhipu's OpenAI-compatible API.
type AIConfig struct {
	Provider         string // "openai" or "anthropic"
	APIKey           string
	BaseURL          string
	Model            string
	MaxTokens        int
	Temperature      float64
	Timeout          time.Duration
	StructuredOutput bool
}

type StoreBackend string

const (
	StoreBackendRedis    StoreBackend = "redis"
	StoreBackendPostgres StoreBackend = "postgres"
	StoreBackendMemory   StoreBackend = "memory"
)

type StoreConfig struct {
	Backend     StoreBackend
	RedisURL    string
	KVTable     string
	EventStream string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// WorkerConfig configures the analytics worker that consumes the event stream.
type WorkerConfig struct {
	Group           string
	Consumer        string
	DLQStream       string
	BatchSize       int64
	Block           time.Duration
	MaxAttempts     int
	RequeueDelay    time.Duration
	ReclaimInterval time.Duration
	ReclaimMinIdle  time.Duration
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeWorker ServiceType = "worker"
)

// Load loads configuration from environment variables.
// In development it first loads .env.<service>, falling back to .env.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("COPYWRITER_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:           getEnv("COPYWRITER_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", ""),
		Port:          getEnv("PORT", "8080"),
		ServicePrefix: strings.Trim(getEnv("SERVICE_PREFIX", "copywriter"), "/"),
		Version:       getEnv("SERVICE_VERSION", "2.0"),
		DB: db.Config{
			DSN:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvInt32("DB_MIN_CONNS", 2),
			MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "copywriter"),
			ServiceVersion: getEnv("SERVICE_VERSION", "2.0"),
			Environment:    getEnv("COPYWRITER_ENV", "development"),
			SampleRatio:    getEnvFloat("OTEL_TRACES_SAMPLE_RATIO", 1.0),
		},
		WorkOS: WorkOSConfig{
			APIKey:   getEnv("WORKOS_API_KEY", ""),
			ClientID: getEnv("WORKOS_CLIENT_ID", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
			Issuer:    getEnv("AUTH_ISSUER", "copywriter"),
			TokenTTL:  getEnvDuration("AUTH_TOKEN_TTL", 7*24*time.Hour),
		},
		AI: AIConfig{
			Provider:         getEnv("AI_PROVIDER", "openai"),
			APIKey:           getEnv("AI_API_KEY", ""),
			BaseURL:          getEnv("AI_BASE_URL", "https://open.bigmodel.cn/api/paas/v4/"),
			Model:            getEnv("AI_MODEL", "glm-4-plus"),
			MaxTokens:        getEnvInt("AI_MAX_TOKENS", 2000),
			Temperature:      getEnvFloat("AI_TEMPERATURE", 0.8),
			Timeout:          getEnvDuration("AI_TIMEOUT", 45*time.Second),
			StructuredOutput: getEnvBool("AI_STRUCTURED_OUTPUT", false),
		},
		Store: StoreConfig{
			Backend:     StoreBackend(getEnv("STORE_BACKEND", string(StoreBackendRedis))),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
			KVTable:     getEnv("KV_TABLE", "kv_store"),
			EventStream: getEnv("EVENT_STREAM", "copywriter_events"),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 0.5),
			Burst: getEnvInt("RATE_LIMIT_BURST", 3),
		},
		Worker: WorkerConfig{
			Group:           getEnv("WORKER_GROUP", "copywriter_stats"),
			Consumer:        getEnv("WORKER_CONSUMER", hostname()),
			DLQStream:       getEnv("WORKER_DLQ_STREAM", "copywriter_events_dlq"),
			BatchSize:       int64(getEnvInt("WORKER_BATCH_SIZE", 50)),
			Block:           getEnvDuration("WORKER_BLOCK", 5*time.Second),
			MaxAttempts:     getEnvInt("WORKER_MAX_ATTEMPTS", 3),
			RequeueDelay:    getEnvDuration("WORKER_REQUEUE_DELAY", time.Second),
			ReclaimInterval: getEnvDuration("WORKER_RECLAIM_INTERVAL", time.Minute),
			ReclaimMinIdle:  getEnvDuration("WORKER_RECLAIM_MIN_IDLE", 5*time.Minute),
		},
	}

	if serviceType == ServiceTypeWorker && cfg.Store.Backend != StoreBackendRedis {
		return Config{}, fmt.Errorf("the worker reads the redis event stream; STORE_BACKEND must be redis")
	}

	switch cfg.Store.Backend {
	case StoreBackendRedis, StoreBackendMemory:
	case StoreBackendPostgres:
		if cfg.DB.DSN == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for the postgres store backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}

	if cfg.Auth.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return Config{}, fmt.Errorf("AUTH_JWT_SECRET is required")
		}
		cfg.Auth.JWTSecret = "development-only-secret"
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c WorkOSConfig) Enabled() bool {
	return c.APIKey != "" && c.ClientID != ""
}

func (c AIConfig) Enabled() bool {
	return c.APIKey != "" && (c.Provider == "openai" || c.Provider == "anthropic")
}

func hostname() string {
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "worker-1"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
