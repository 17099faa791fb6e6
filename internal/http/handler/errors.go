package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
)

// respondError maps service errors onto status codes. Validation messages
// are user-facing and returned verbatim; anything unrecognised is a 500
// carrying message.
func respondError(c *gin.Context, err error, message string) {
	ctx := c.Request.Context()

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: verr.Message})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Authentication failed. Please sign in again."})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "邮箱或密码错误"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "用户创建失败", Details: service.ErrEmailTaken.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: message})
	case errors.Is(err, service.ErrIdentityUnavailable):
		slog.ErrorContext(ctx, "identity provider unavailable", "error", err)
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: message, Details: service.ErrIdentityUnavailable.Error()})
	default:
		slog.ErrorContext(ctx, "request failed", "error", err, "response", message)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: message, Details: err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	slog.WarnContext(c.Request.Context(), "invalid request body", "error", err)
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "请求格式不正确", Details: err.Error()})
}
