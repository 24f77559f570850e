// Package errors provides the structured error type used across gokit-di.
// Every failure raised by the resolver itself is an *AppError carrying a
// machine-readable code; errors returned by user constructors and lifecycle
// methods are never wrapped and reach the caller unchanged.
package errors
