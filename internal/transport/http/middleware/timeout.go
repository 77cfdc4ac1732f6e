package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"go-gin-gorm-shop/internal/transport/http/ez"
	resp "go-gin-gorm-shop/internal/transport/http/response"
)

// Timeout 给请求 ctx 加截止时间；gorm 通过 WithContext 感知
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			ez.Abort(c, &ez.AErr{Code: resp.CodeTimeout, Msg: "timeout"})
		}
	}
}
