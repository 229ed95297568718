// Package errors is the coded error type shared by every layer
// Import it as perr
package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine readable code carried on the wire
// values are positional; append new codes at the end
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable     // dependency down, retry may succeed
	ErrorCodeTooManyRequests // daily quota or IP rate limit
	ErrorCodeConflict        // contention, stores use it for busy or locked
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeInvalidArgument
	ErrorCodeValidation // request content failed a rule
	ErrorCodeJSON       // request body could not be decoded
	ErrorCodeNotFound
	ErrorCodeDuplicateKey
	ErrorCodeDB
)

var statusByCode = map[ErrorCode]int{
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
	ErrorCodeTooManyRequests: http.StatusTooManyRequests,
	ErrorCodeConflict:        http.StatusConflict,
	ErrorCodeDuplicateKey:    http.StatusConflict,
	ErrorCodeUnauthorized:    http.StatusUnauthorized,
	ErrorCodeForbidden:       http.StatusForbidden,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeNotFound:        http.StatusNotFound,
}

// HTTPStatusCode maps a code to its response status; unmapped codes are 500
func HTTPStatusCode(c ErrorCode) int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ErrNotFound is returned by repos when a quota record does not exist
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error carries a code, a client safe message and an optional offending field
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
}

// Wire is the error block clients see
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return e.msg + ": " + e.orig.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error   { return e.orig }
func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Field() string   { return e.field }

// ToWire drops the wrapped cause
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// WireFrom converts any error into its wire form
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root returns the innermost cause
func Root(err error) error {
	for err != nil {
		next := stderrs.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	return err
}

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of the outermost *Error, Unknown otherwise
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is the response status for err
func HTTPStatus(err error) int {
	return HTTPStatusCode(CodeOf(err))
}

// WithField returns a copy of err naming the offending request field
// errors that are not *Error come back unchanged
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap keeps orig for logs and errors.Is while msg is what the client sees
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

func NotFoundf(format string, a ...any) error        { return Newf(ErrorCodeNotFound, format, a...) }
func DBf(format string, a ...any) error              { return Newf(ErrorCodeDB, format, a...) }
func JSONErrf(format string, a ...any) error         { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error        { return Newf(ErrorCodePanic, format, a...) }
func Conflictf(format string, a ...any) error        { return Newf(ErrorCodeConflict, format, a...) }
func Unavailablef(format string, a ...any) error     { return Newf(ErrorCodeUnavailable, format, a...) }
func TooManyRequestsf(format string, a ...any) error { return Newf(ErrorCodeTooManyRequests, format, a...) }
func Validationf(format string, a ...any) error      { return Newf(ErrorCodeValidation, format, a...) }

// Retryable reports whether another attempt could succeed
// a Conflict code counts, then the postgres rules in pg.go
// cancellation never does
func Retryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if IsCode(err, ErrorCodeConflict) {
		return true
	}
	return pgRetryable(err)
}

// IsTransient reports whether the store looked unreachable rather than
// rejecting the statement; the quota service uses it to fail open
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if IsCode(err, ErrorCodeUnavailable) {
		return true
	}
	if stderrs.Is(err, context.DeadlineExceeded) {
		return true
	}
	return pgUnreachable(err)
}
