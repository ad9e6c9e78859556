// Package errx is the error model shared by the service and HTTP layers.
//
// An Error carries a stable code (the outward meaning), a message, optional
// context data and an optional cause. errors.Is matches on code only, so
// sentinels can be compared after WithData/WithCause derived copies.
package errx

import (
	"errors"
	"fmt"
	"maps"
)

// Code is the stable, machine readable identity of an error.
type Code string

const (
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeInvalidField Code = "INVALID_FIELD"
	CodeNotFound     Code = "NOT_FOUND"
	CodeUnavailable  Code = "SERVICE_UNAVAILABLE"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Sentinels. Never mutate them; derive with WithData/WithCause.
var (
	ErrBadRequest   = New(CodeBadRequest, "bad request")
	ErrInvalidField = New(CodeInvalidField, "validation failed")
	ErrNotFound     = New(CodeNotFound, "not found")
	ErrUnavailable  = New(CodeUnavailable, "service unavailable")
	ErrInternal     = New(CodeInternal, "internal server error")
)

type Error struct {
	code  Code
	msg   string
	data  map[string]any
	cause error
}

func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.code, e.msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.cause)
}

// Unwrap exposes the cause chain to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches by code, ignoring message, data and cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

// Data returns a copy of the context data.
func (e *Error) Data() map[string]any {
	if e == nil || e.data == nil {
		return nil
	}
	return maps.Clone(e.data)
}

func (e *Error) WithMsg(msg string) *Error {
	next := e.clone()
	next.msg = msg
	return next
}

func (e *Error) WithData(key string, value any) *Error {
	next := e.clone()
	if next.data == nil {
		next.data = make(map[string]any, 1)
	}
	next.data[key] = value
	return next
}

func (e *Error) WithCause(cause error) *Error {
	next := e.clone()
	next.cause = cause
	return next
}

func (e *Error) clone() *Error {
	return &Error{
		code:  e.code,
		msg:   e.msg,
		data:  maps.Clone(e.data),
		cause: e.cause,
	}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsBadRequest reports whether err describes invalid client input.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidField)
}
