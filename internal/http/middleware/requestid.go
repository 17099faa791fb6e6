package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BitmanAlan/xiaohongshu/common/logger"
	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
)

// RequestID propagates the caller's request id, or mints one, into the
// response header and every log line of the request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(dto.RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}

		c.Header(dto.RequestIDHeader, requestID)
		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{RequestID: &requestID})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
