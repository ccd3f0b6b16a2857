package message

import (
	stderrors "errors"
	"fmt"
)

// Error carries a typed Result together with an optional cause. Stream
// failures surfaced by the reader, and all failures of the key-file
// loader and the WAD parser, are of this type so that callers can
// branch on the Result. Misuse of a reader (Update or Finish after
// Finish) returns an untyped error, which ResultOf maps to
// UnexpectedError.
type Error struct {
	Result Result
	cause  error
}

// NewError returns an Error with the given result and no cause.
func NewError(result Result) *Error {
	return &Error{Result: result}
}

// WrapError attaches a typed result to an underlying error.
func WrapError(err error, result Result) *Error {
	return &Error{Result: result, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("goencryptmsg: %s: %s", e.Result, e.cause)
	}
	return "goencryptmsg: " + e.Result.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ResultOf extracts the Result from an error chain. Errors without a
// typed result map to UnexpectedError; nil maps to Success.
func ResultOf(err error) Result {
	if err == nil {
		return Success
	}
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed.Result
	}
	return UnexpectedError
}
