package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BitmanAlan/xiaohongshu/common/logger"
	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// RequireAuth resolves the bearer token to a user or aborts with 401.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Authentication required. Please sign in."})
			return
		}

		user, err := authService.Authenticate(ctx, token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				slog.InfoContext(ctx, "bearer token rejected", "error", err)
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
					Error:   "Authentication failed. Please sign in again.",
					Details: err.Error(),
				})
				return
			}
			slog.ErrorContext(ctx, "failed to authenticate request", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "Authentication error occurred",
				Details: err.Error(),
			})
			return
		}

		ctx = context.WithValue(ctx, userContextKey, user)
		ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &user.ID})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// WithUser attaches user to ctx the way RequireAuth does.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
