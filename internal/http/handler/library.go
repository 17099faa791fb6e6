package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/http/middleware"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
)

type LibraryHandler struct {
	libraryService service.LibraryService
}

func NewLibraryHandler(libraryService service.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

func (h *LibraryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.libraryService.List(ctx, middleware.GetUser(ctx))
	if err != nil {
		respondError(c, err, "获取文案库失败")
		return
	}

	c.JSON(http.StatusOK, dto.LibraryResponse{Library: items})
}

func (h *LibraryHandler) Save(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if _, err := h.libraryService.Save(ctx, middleware.GetUser(ctx), req.GenerationID, req.ContentID); err != nil {
		respondError(c, err, "保存失败")
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
