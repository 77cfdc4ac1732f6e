package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-gorm-shop/internal/domain"
	"go-gin-gorm-shop/internal/transport/http/ez"
)

type UserHandler struct {
	svc UserUsecase
}

func NewUserHandler(svc UserUsecase) *UserHandler { return &UserHandler{svc: svc} }

type listUsersQ struct {
	Offset int    `form:"offset,default=0" binding:"min=0"`
	Limit  int    `form:"limit,default=20" binding:"min=0"`
	Q      string `form:"q"` // 按 email/username 模糊搜
}

type listUsersOut struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

type createUserIn struct {
	Username string `json:"username" binding:"required,max=64"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

func (h *UserHandler) MountAPI(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[listUsersQ, listUsersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listUsersQ) (listUsersOut, error) {
			items, total, err := h.svc.List(c.Request.Context(), domain.UserFilter{Q: in.Q, Offset: in.Offset, Limit: in.Limit})
			if err != nil {
				return listUsersOut{}, ez.Internal("list users failed", err)
			}
			if items == nil {
				items = []domain.User{}
			}
			return listUsersOut{Total: total, Items: items}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[createUserIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *createUserIn) (*domain.User, error) {
			u, err := h.svc.Create(c.Request.Context(), in.Username, in.Email, in.Password)
			if err != nil {
				return nil, ez.MapError(err, "create user failed", conflict(domain.ErrDuplicate, "email already in use"))
			}
			return u, nil
		},
	})
}
