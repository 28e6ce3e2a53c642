package apperr

import (
	"errors"
	"net/http"
)

// Error 统一业务错误：带 HTTP 状态码，response 层直接映射
type Error struct {
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &Error{Status: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Status: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Status: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Status: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) error     { return &Error{Status: http.StatusConflict, Msg: msg} }
func Internal(msg string, err error) error {
	return &Error{Status: http.StatusInternalServerError, Msg: msg, Err: err}
}

// From 任意 error 归一成 *Error（未知错误按 500 处理）
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Status: http.StatusInternalServerError, Msg: "internal error", Err: err}
}

func StatusOf(err error) int { return From(err).Status }
