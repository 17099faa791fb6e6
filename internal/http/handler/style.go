package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/http/middleware"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
)

type StyleHandler struct {
	styleService service.StyleService
}

func NewStyleHandler(styleService service.StyleService) *StyleHandler {
	return &StyleHandler{styleService: styleService}
}

func (h *StyleHandler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AnalyzeStyleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	analysis, err := h.styleService.Analyze(ctx, middleware.GetUser(ctx), req.TrainingText, req.AccountTag)
	if err != nil {
		respondError(c, err, "风格分析失败")
		return
	}

	c.JSON(http.StatusOK, dto.AnalyzeStyleResponse{Analysis: analysis})
}

func (h *StyleHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := h.styleService.Profile(ctx, middleware.GetUser(ctx))
	if err != nil {
		respondError(c, err, "获取风格档案失败")
		return
	}

	sessions := profile.Sessions
	if sessions == nil {
		sessions = []model.TrainingSession{}
	}
	c.JSON(http.StatusOK, dto.StyleProfileResponse{
		TrainingSessions: sessions,
		TotalSessions:    profile.Total,
	})
}
