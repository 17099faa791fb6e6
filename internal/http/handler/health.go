package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
)

const healthPingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store     Pinger
	aiService string
	version   string
	envCheck  map[string]bool
	now       func() time.Time
}

// NewHealthHandler reports on store reachability plus which settings are
// present. envCheck must only carry presence flags, never values.
func NewHealthHandler(store Pinger, aiService, version string, envCheck map[string]bool) *HealthHandler {
	return &HealthHandler{
		store:     store,
		aiService: aiService,
		version:   version,
		envCheck:  envCheck,
		now:       time.Now,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		AIService: h.aiService,
		Version:   h.version,
		EnvCheck:  h.envCheck,
		Store:     "ok",
	}

	if err := h.store.Ping(ctx); err != nil {
		slog.WarnContext(ctx, "store ping failed", "error", err)
		resp.Status = "degraded"
		resp.Store = "unreachable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
