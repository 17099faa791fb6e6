package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/http/middleware"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
)

const profileNotFound = "用户档案未找到"

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := h.profileService.Get(ctx, middleware.GetUser(ctx))
	if err != nil {
		respondError(c, err, profileNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{Profile: profile})
}

func (h *ProfileHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateProfileRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.profileService.Update(ctx, middleware.GetUser(ctx), req.ToModel())
	if err != nil {
		respondError(c, err, profileNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{Profile: profile})
}
