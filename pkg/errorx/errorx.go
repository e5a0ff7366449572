package errorx

import (
	"errors"
	"fmt"
)

// CodeError is an error carrying a business status code. It supports
// wrapping an underlying cause so errors.Is/errors.As keep working.
type CodeError struct {
	Code  int
	Msg   string
	cause error
}

func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

func (e *CodeError) Unwrap() error {
	return e.cause
}

// New creates a CodeError without an underlying cause.
func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

// Newf creates a CodeError with a formatted message.
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a business code and message to an underlying error.
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg, cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...), cause: err}
}

// GetCode extracts the business code, defaulting to CodeServerBusy for
// plain errors.
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// Business status codes.
const (
	CodeSuccess         = 1000
	CodeInvalidParam    = 1001
	CodeUserExist       = 1002
	CodeUserNotExist    = 1003
	CodeInvalidPassword = 1004
	CodeServerBusy      = 1005
	CodeUnauthorized    = 1006
	CodeForbidden       = 1007 // actor not allowed to perform the transition
	CodeNotFound        = 1008
	CodeDBError         = 1010
	CodeCacheError      = 1011
)

// Predeclared instances for the common cases.
var (
	ErrInvalidParam = New(CodeInvalidParam, "invalid request parameter")
	ErrServerBusy   = New(CodeServerBusy, "server busy")
	ErrForbidden    = New(CodeForbidden, "operation not permitted")
)

// IsNotFound reports whether err is a not-found error, including
// gorm's record-not-found surfaced through a wrap.
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeNotFound {
		return true
	}
	return err != nil && err.Error() == "record not found"
}
