package errors

import "net/http"

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Registry errors
const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeConflict is returned for writes to a frozen registry.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// ErrCodeInvalidInput covers malformed callables, recipes and configuration.
const ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

// Invocation errors
const (
	// ErrCodeMissingArgument indicates a parameter was left without a value at call time.
	ErrCodeMissingArgument ErrorCode = "MISSING_ARGUMENT"
	// ErrCodeUnexpectedArgument indicates a keyword argument names no parameter.
	ErrCodeUnexpectedArgument ErrorCode = "UNEXPECTED_ARGUMENT"
	ErrCodeAttribute          ErrorCode = "ATTRIBUTE_ERROR"
	ErrCodeMethodNotFound     ErrorCode = "METHOD_NOT_FOUND"
	// ErrCodeAsyncInBlockingCall indicates an asynchronous result reached the
	// blocking call path while a scheduler was running.
	ErrCodeAsyncInBlockingCall ErrorCode = "ASYNC_IN_BLOCKING_CALL"
)

// ErrCodeUnknown is reported by CodeOf for errors that carry no code, such as
// those returned by user constructors.
const ErrCodeUnknown ErrorCode = "UNKNOWN"

// HTTPStatus returns the status a transport should answer with for c.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
