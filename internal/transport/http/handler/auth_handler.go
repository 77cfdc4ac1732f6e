package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-gorm-shop/internal/core/auth"
	"go-gin-gorm-shop/internal/domain"
	"go-gin-gorm-shop/internal/transport/http/ez"
)

type AuthHandler struct {
	svc     AuthUsecase
	session auth.SessionCookie
}

func NewAuthHandler(svc AuthUsecase, session auth.SessionCookie) *AuthHandler {
	return &AuthHandler{svc: svc, session: session}
}

func (h *AuthHandler) Priority() int { return 10 }

type registerIn struct {
	Username string `json:"username" binding:"required,max=64"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"` // bcrypt 上限
}

type publicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type registerOut struct {
	User publicUser `json:"user"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (h *AuthHandler) MountAPI(e ez.EZ) {
	g := e.Group("/auth")

	ez.RegisterAction(g, ez.Action[registerIn, registerOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerIn) (registerOut, error) {
			u, err := h.svc.Register(c.Request.Context(), in.Username, in.Email, in.Password)
			if err != nil {
				return registerOut{}, ez.MapError(err, "register failed",
					ez.ErrorMapping{Err: domain.ErrEmailTaken, Code: http.StatusBadRequest, Msg: "email already in use"},
				)
			}
			return registerOut{User: publicUser{ID: u.ID, Username: u.Username, Email: u.Email}}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			tok, _, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return loginOut{}, ez.MapError(err, "login failed",
					ez.ErrorMapping{Err: domain.ErrInvalidCredentials, Code: http.StatusUnauthorized, Msg: "invalid email or password"},
				)
			}
			h.session.Set(c.Writer, tok)
			return loginOut{Message: "login successful", Token: tok}, nil
		},
	})

	// 只清掉客户端的 cookie，token 本身在过期前仍然有效
	ez.RegisterAction(g, ez.Action[struct{}, message]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (message, error) {
			h.session.Clear(c.Writer)
			return message{Message: "logged out"}, nil
		},
	})
}
