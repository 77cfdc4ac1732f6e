package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"go-gin-gorm-shop/internal/transport/http/ez"
	resp "go-gin-gorm-shop/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时在处理的请求数（保护 DB 下游）；等待受请求 ctx 约束
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	if max <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			ez.Abort(c, &ez.AErr{Code: resp.CodeUnavailable, Msg: "server busy"})
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
