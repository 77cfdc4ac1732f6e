package middleware

import (
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gorm-shop/internal/transport/http/ez"
)

// Recovery 记录 panic 堆栈，并以统一信封返回 500
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		ez.Abort(c, ez.Internal("internal error", nil))
	})
}
