/**
 * @description
 * This file defines the error taxonomy for the cancellation-service and the
 * single mapping from error kind to HTTP status code. Handlers never inspect
 * error strings; they call HTTPStatus and pass the message through.
 */
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failure for HTTP status mapping.
type ErrorKind int

const (
	// ErrKindInternal covers any unexpected failure (network error,
	// malformed remote response). Maps to 500.
	ErrKindInternal ErrorKind = iota
	// ErrKindValidation is a missing or malformed required input. Maps to 400.
	ErrKindValidation
	// ErrKindNotFound means the subscriber, the billing-customer mapping, or
	// the subscriptions were absent at some resolution stage. Maps to 404.
	ErrKindNotFound
	// ErrKindUpstream is a failed remote API call. When it occurs during a
	// per-subscription cancellation it is surfaced in that subscription's
	// outcome; when it aborts resolution or enumeration it maps to 500.
	ErrKindUpstream
)

// Error is a classified failure. Code carries the upstream error code when
// the remote system supplied one.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ValidationError builds an ErrKindValidation error.
func ValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError builds an ErrKindNotFound error.
func NotFoundError(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrKindNotFound, Message: fmt.Sprintf(format, args...)}
}

// UpstreamError builds an ErrKindUpstream error wrapping the remote failure.
func UpstreamError(code string, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: ErrKindUpstream, Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// UpstreamCode extracts the remote error code from err, if any.
func UpstreamCode(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// HTTPStatus maps an error to its response status code. Anything outside the
// taxonomy, including upstream failures during resolution or enumeration,
// is an internal error.
func HTTPStatus(err error) int {
	var de *Error
	if errors.As(err, &de) {
		switch de.Kind {
		case ErrKindValidation:
			return http.StatusBadRequest
		case ErrKindNotFound:
			return http.StatusNotFound
		}
	}
	return http.StatusInternalServerError
}
