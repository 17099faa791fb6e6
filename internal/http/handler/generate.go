package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/http/middleware"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
)

type GenerationHandler struct {
	generationService service.GenerationService
}

func NewGenerationHandler(generationService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationService: generationService}
}

func (h *GenerationHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.generationService.Generate(ctx, user, service.GenerateInput{
		ProductName:    req.ProductName,
		SelectedTags:   req.SelectedTags,
		ContentType:    req.ContentType,
		TargetAudience: req.TargetAudience,
		WritingStyle:   req.WritingStyle,
	})
	if err != nil {
		respondError(c, err, "内容生成失败")
		return
	}

	c.JSON(http.StatusOK, dto.GenerateResponse{
		GenerationID: res.Generation.ID,
		Content:      res.Generation.Variants,
		Notice:       res.Notice,
	})
}
