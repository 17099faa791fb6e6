package middleware

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
)

// Recovery converts a handler panic into a 500 JSON body. Panics caused by
// the client hanging up are logged without a stack and get no response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				// net/http's own signal to drop the connection
				panic(rec)
			}

			ctx := c.Request.Context()
			if err, ok := rec.(error); ok && clientGone(err) {
				slog.InfoContext(ctx, "client disconnected mid-response",
					"path", c.Request.URL.Path,
					"error", err)
				c.Abort()
				return
			}

			slog.ErrorContext(ctx, "panic recovered",
				"panic", rec,
				"method", c.Request.Method,
				"route", c.FullPath(),
				"stack", string(debug.Stack()))

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "服务器内部错误"})
		}()
		c.Next()
	}
}

func clientGone(err error) bool {
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var sysErr *os.SyscallError
	if errors.As(opErr.Err, &sysErr) {
		return errors.Is(sysErr.Err, syscall.EPIPE) || errors.Is(sysErr.Err, syscall.ECONNRESET)
	}
	return false
}
