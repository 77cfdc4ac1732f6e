package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-gorm-shop/internal/core/auth"
	"go-gin-gorm-shop/internal/domain"
	"go-gin-gorm-shop/internal/transport/http/ez"
	mdw "go-gin-gorm-shop/internal/transport/http/middleware"
)

// MeHandler /me 与 /admin/only-admin：先认证（401），再按角色拒绝（403）
type MeHandler struct {
	users UserUsecase
	guard *auth.Guard
}

func NewMeHandler(users UserUsecase, guard *auth.Guard) *MeHandler {
	return &MeHandler{users: users, guard: guard}
}

type meOut struct {
	User *domain.User `json:"user"`
}

func (h *MeHandler) MountAPI(e ez.EZ) {
	authed := e.Group("", mdw.AuthJWT(h.guard))

	// 以数据库中的角色为准，而不是 token 里的
	ez.RegisterAction(authed, ez.Action[struct{}, meOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (meOut, error) {
			u, err := h.users.Get(c.Request.Context(), c.GetString(mdw.KeyUserID))
			if err != nil {
				return meOut{}, ez.MapError(err, "load user failed", notFound(domain.ErrNotFound, "user not found"))
			}
			if u.Role != domain.RoleAdmin {
				return meOut{}, ez.Forbidden("forbidden: admin only")
			}
			return meOut{User: u}, nil
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, message]{
		Method: http.MethodGet,
		Path:   "/admin/only-admin",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (message, error) {
			if c.GetString(mdw.KeyRole) != string(domain.RoleAdmin) {
				return message{}, ez.Forbidden("forbidden")
			}
			return message{Message: "admin access granted"}, nil
		},
	})
}
