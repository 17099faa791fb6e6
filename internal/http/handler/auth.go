package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.authService.SignUp(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, err, "服务器内部错误")
		return
	}

	c.JSON(http.StatusOK, dto.SignUpResponse{User: dto.ToUserResponse(user)})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, err, "登录失败")
		return
	}

	c.JSON(http.StatusOK, dto.SignInResponse{
		User:        dto.ToUserResponse(session.User),
		AccessToken: session.AccessToken,
		ExpiresIn:   int64(session.ExpiresIn.Seconds()),
	})
}
