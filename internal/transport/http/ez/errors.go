package ez

import (
	"errors"
	"net/http"
)

// AErr 统一错误对象：Code 即 HTTP 状态码，Msg 返回给客户端，Err 只进日志
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) error     { return &AErr{Code: http.StatusConflict, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// ErrorMapping 描述 domain 错误到 HTTP 的映射
type ErrorMapping struct {
	Err  error
	Code int
	Msg  string
}

// MapError 按顺序匹配 mappings；都不匹配则归为 500，fallback 作为对外文案
func MapError(err error, fallback string, mappings ...ErrorMapping) error {
	if err == nil {
		return nil
	}
	var ae *AErr
	if errors.As(err, &ae) {
		return ae
	}
	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			return &AErr{Code: m.Code, Msg: m.Msg, Err: err}
		}
	}
	return Internal(fallback, err)
}
