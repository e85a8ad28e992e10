// Package domainerrors defines coded errors shared by the relay and its page
// service. A Code classifies the failure; the message is what the user sees.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure independent of its message.
type Code string

// Relay failure classes. Every class is terminal for the current attempt.
const (
	CodeMissingParameter           Code = "missing_parameter"
	CodeInvalidParameter           Code = "invalid_parameter"
	CodeKeyParseFailure            Code = "key_parse_failure"
	CodeInitializationFailure      Code = "initialization_failure"
	CodeLoginProcessFailure        Code = "login_process_failure"
	CodeAuthenticationRejected     Code = "authentication_rejected"
	CodeDelegationRetrievalFailure Code = "delegation_retrieval_failure"
	CodeUnknownEmbeddingContext    Code = "unknown_embedding_context"
)

// Transport failure classes.
const (
	CodeBadRequest Code = "bad_request"
	CodeNotFound   Code = "not_found"
	CodeInternal   Code = "internal_error"
)

// Error is a coded domain error. It optionally wraps the error that caused it.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// New creates a coded error.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. A nil err yields nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same code and message, so tests can use
// errors.Is(err, New(code, msg)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// CodeOf returns the code of the outermost coded error in the chain, or
// CodeInternal when none is present.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether any coded error in the chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}
