package ez

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	resp "go-gin-gorm-shop/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// Group 在当前分组下派生子分组，可附带中间件（鉴权等）
func (e EZ) Group(path string, mw ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, mw...), log: e.log}
}

type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method     string // 默认 POST
	Path       string // 例："/auth/login"、"/products/:id"
	Binder     Binder
	Status     int               // 成功状态码，默认 200
	Middleware []gin.HandlerFunc // 仅作用于本路由（如 RequireRole）
	Handler    func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			Abort(c, BadRequest(BindingMessage(bindErr)))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, resp.OK(out))
	}

	handlers := append(append([]gin.HandlerFunc{}, a.Middleware...), h)
	method := strings.ToUpper(a.Method)
	if method == "" {
		method = http.MethodPost
	}
	e.g.Handle(method, a.Path, handlers...)
}

func (e EZ) fail(c *gin.Context, err error) {
	var ae *AErr
	if !errors.As(err, &ae) {
		ae = &AErr{Code: http.StatusInternalServerError, Msg: "internal error", Err: err}
	}
	if ae.Code >= http.StatusInternalServerError {
		e.log.Error("request failed",
			zap.String("rid", c.GetString("X-Request-ID")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(ae.Err),
		)
		_ = c.Error(ae)
	}
	Abort(c, ae)
}

// Abort 以统一信封结束请求
func Abort(c *gin.Context, err error) {
	var ae *AErr
	if !errors.As(err, &ae) {
		ae = &AErr{Code: http.StatusInternalServerError, Msg: "internal error"}
	}
	c.AbortWithStatusJSON(resp.Status(ae.Code), resp.Error(ae.Code, ae.Error()))
}

// BindingMessage 把绑定/校验错误转成可读文案
func BindingMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return strings.Join(msgs, "; ")
	}
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return "request body too large"
	}
	return "invalid request: " + err.Error()
}

func fieldError(fe validator.FieldError) string {
	field := toSnake(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
