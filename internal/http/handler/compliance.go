package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/http/middleware"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
)

type ComplianceHandler struct {
	complianceService service.ComplianceService
}

func NewComplianceHandler(complianceService service.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{complianceService: complianceService}
}

func (h *ComplianceHandler) Review(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ComplianceReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	results, err := h.complianceService.Review(ctx, middleware.GetUser(ctx), req.GenerationID, req.Content)
	if err != nil {
		respondError(c, err, "文案不存在")
		return
	}

	c.JSON(http.StatusOK, dto.ComplianceReviewResponse{Results: results})
}
