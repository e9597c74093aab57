package errs

import (
	"errors"
	"net/http"
)

// Error 统一业务错误：Code 直接使用 HTTP 语义（见 response.Code*）
type Error struct {
	Code int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &Error{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Code: http.StatusNotFound, Msg: msg} }

// Conflict is a uniqueness violation reported back to the client as a bad request,
// detail comes from the store.
func Conflict(detail string, err error) error {
	return &Error{Code: http.StatusBadRequest, Msg: detail, Err: err}
}

// Misconfigured marks a wiring defect on the server side, never a client mistake.
func Misconfigured(msg string) error {
	return &Error{Code: http.StatusInternalServerError, Msg: msg}
}

// Internal keeps the cause for logs; Msg is what the caller sees.
func Internal(msg string, err error) error {
	return &Error{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// CodeOf returns the HTTP code carried by err, 500 for foreign errors.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool     { return CodeOf(err) == http.StatusNotFound }
func IsUnauthorized(err error) bool { return CodeOf(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return CodeOf(err) == http.StatusForbidden }
