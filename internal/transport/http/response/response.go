package response

import "net/http"

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New 保证 data 不为 null
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error 的 code 同时作为 HTTP 状态码使用
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// Status 业务码对应的 HTTP 状态码
func Status(code int) int {
	if code == CodeOK {
		return http.StatusOK
	}
	if code < 100 || code > 599 {
		return http.StatusInternalServerError
	}
	return code
}
