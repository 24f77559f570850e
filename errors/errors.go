package errors

import (
	"fmt"
)

// AppError is the error type raised by the resolver and its helpers.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Details carries the names involved (callable, param, type, ...).
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code, so that
// code-only sentinels work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates an AppError with no details. It is mostly used for sentinels.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func newError(code ErrorCode, details map[string]any, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Details: details}
}

// NotFound reports that nothing of kind resource is registered under id.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return newError(ErrCodeNotFound, details, "no %s registered for %s", resource, id)
}

// AlreadyExists reports a duplicate registration.
func AlreadyExists(resource string) *AppError {
	return newError(ErrCodeAlreadyExists, map[string]any{"resource": resource},
		"a recipe for %s is already registered", resource)
}

// Conflict reports an operation the current registry state does not allow.
func Conflict(reason string) *AppError {
	return newError(ErrCodeConflict, nil, "%s", reason)
}

// InvalidInput reports a malformed callable, recipe or value for field.
func InvalidInput(field, reason string) *AppError {
	var details map[string]any
	if field != "" {
		details = map[string]any{"field": field}
	}
	return newError(ErrCodeInvalidInput, details, "invalid input: %s", reason)
}

// Validation reports failed configuration validation.
func Validation(message string) *AppError {
	return newError(ErrCodeInvalidInput, nil, "%s", message)
}

// MissingArgument reports a parameter left unfilled at call time.
func MissingArgument(callable, param string) *AppError {
	return newError(ErrCodeMissingArgument, map[string]any{"callable": callable, "param": param},
		"%s: missing required argument %q", callable, param)
}

// UnexpectedArgument reports a keyword that names no parameter.
func UnexpectedArgument(callable, name string) *AppError {
	return newError(ErrCodeUnexpectedArgument, map[string]any{"callable": callable, "param": name},
		"%s: unexpected keyword argument %q", callable, name)
}

// AttributeError reports a failed post-construction assignment.
func AttributeError(target, name, reason string) *AppError {
	return newError(ErrCodeAttribute, map[string]any{"target": target, "attribute": name},
		"cannot set %s.%s: %s", target, name, reason)
}

// MethodNotFound reports a lifecycle method missing from the instance.
func MethodNotFound(target, method string) *AppError {
	return newError(ErrCodeMethodNotFound, map[string]any{"target": target, "method": method},
		"%s has no method %s", target, method)
}

// AsyncInBlockingCall reports an asynchronous result that the blocking path
// cannot drive to completion.
func AsyncInBlockingCall(site string) *AppError {
	return newError(ErrCodeAsyncInBlockingCall, map[string]any{"site": site},
		"%s returned an asynchronous result while a scheduler is active; use the context-aware call path", site)
}
