package middleware

import (
	"github.com/gin-gonic/gin"

	"go-gin-gorm-shop/internal/core/auth"
	"go-gin-gorm-shop/internal/transport/http/ez"
)

const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyRole   = "role"
)

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(KeyClaims, claims)
	c.Set(KeyUserID, claims.UID)
	c.Set(KeyRole, claims.Role)
}

// AuthJWT 要求有效 token（cookie 或 Bearer），否则 401
func AuthJWT(g *auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := g.Authenticate(c.Request)
		if !ok {
			ez.Abort(c, ez.Unauthorized("unauthorized"))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// RequireRole 缺 token、token 无效、角色不符统一返回 403
func RequireRole(g *auth.Guard, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := g.Authorize(c.Request, role)
		if !ok {
			ez.Abort(c, ez.Forbidden("access denied: "+role+" only"))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}
