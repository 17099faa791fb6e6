package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/http/middleware"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
)

type FeedbackHandler struct {
	feedbackService service.FeedbackService
}

func NewFeedbackHandler(feedbackService service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

func (h *FeedbackHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	_, err := h.feedbackService.Submit(ctx, middleware.GetUser(ctx), service.FeedbackInput{
		GenerationID: req.GenerationID,
		Satisfaction: req.Satisfaction,
		Tags:         req.Tags,
		Comment:      req.Comment,
	})
	if err != nil {
		respondError(c, err, "反馈提交失败")
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
