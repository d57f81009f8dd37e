/*
Package core holds error codes and the application error type shared by all
packages of otslice.

An application error carries three things: a numeric code (one of the E-codes
below), a short user-facing summary, and the wrapped technical error, which
serves as the detailed message for display.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package core

import (
	"errors"
	"fmt"
)

// Error codes
const (
	NOERROR       int = 0
	EINVALIDVALUE int = 130 // malformed user value: axis number, name ID or bit name
	EINVALIDRANGE int = 131 // axis entry does not follow range syntax
	EDEFAULTRANGE int = 132 // axis default outside requested range
	EUNKNOWNAXIS  int = 133 // axis entry for a tag the font does not declare
	ENOAXES       int = 134 // request leaves every axis variable
	ENOTVARIABLE  int = 140 // font has no fvar table
	EINSTANTIATE  int = 141 // instancer reported an error
	ENAMEEDIT     int = 142 // name table could not be edited
	EPERSIST      int = 143 // output could not be written
	EINTERNAL     int = 150 // internal error
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EINVALIDVALUE:
		return "invalid axis value"
	case EINVALIDRANGE:
		return "invalid axis range"
	case EDEFAULTRANGE:
		return "default not in range"
	case EUNKNOWNAXIS:
		return "unknown axis"
	case ENOAXES:
		return "no axis values defined"
	case ENOTVARIABLE:
		return "not a variable font"
	case EINSTANTIATE:
		return "instantiation failed"
	case ENAMEEDIT:
		return "name table edit failed"
	case EPERSIST:
		return "write failed"
	case EINTERNAL:
		return "internal error"
	}
	return "undefined error"
}

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	return fmt.Sprintf("[%d] %s: %v", e.code, e.msg, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

// Is lets errors.Is match any application error carrying the same code.
func (e coreError) Is(target error) bool {
	var t coreError
	if errors.As(target, &t) {
		return t.code == e.code && t.error == nil
	}
	return false
}

var _ AppError = coreError{}

// ErrorWithCode adds an error code to err's error chain.
// ErrorWithCode will wrap nil error.
func ErrorWithCode(err error, code int) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{err, code, errorText(code)}
}

// WrapError wraps an error in a core error, featuring an error code and
// a user message.
// If err is nil, an error denoting the code's default text is wrapped.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{err, code, fmt.Sprintf(format, v...)}
}

// Kind returns a template error for code, usable as a target for errors.Is:
//
//	if errors.Is(err, core.Kind(core.EDEFAULTRANGE)) { … }
func Kind(code int) error {
	return coreError{code: code, msg: errorText(code)}
}

// Code returns the error code of the first application error in err's chain,
// NOERROR for nil, and EINTERNAL for foreign errors.
func Code(err error) int {
	if err == nil {
		return NOERROR
	}
	var app AppError
	if errors.As(err, &app) {
		return app.ErrorCode()
	}
	return EINTERNAL
}

// Summary returns the short user-facing message of err.
func Summary(err error) string {
	if err == nil {
		return errorText(NOERROR)
	}
	var app AppError
	if errors.As(err, &app) {
		return app.UserMessage()
	}
	return errorText(EINTERNAL)
}

// Detail returns the technical message of err, i.e. the text of the wrapped
// cause. For foreign errors it is err's text.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var ce coreError
	if errors.As(err, &ce) && ce.error != nil {
		return ce.error.Error()
	}
	return err.Error()
}
