package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable error codes returned in every error body.
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeFormatNotSupported = "FORMAT_NOT_SUPPORTED"
	CodeConversionFailed   = "CONVERSION_FAILED"
	CodeTimeout            = "TIMEOUT"
	CodeFileTooLarge       = "FILE_TOO_LARGE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error is a typed, user-visible failure. It implements error and carries
// everything the transport layer needs to render a response.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`

	// Status is the HTTP status this error maps to. Not serialized; the
	// body carries only code, message and details.
	Status int `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Response is the wire shape of every error response body.
type Response struct {
	Error *Error `json:"error"`
}

// NewAuthentication returns a 401 UNAUTHORIZED error. An empty message
// yields the generic credential failure message.
func NewAuthentication(message string) *Error {
	if message == "" {
		message = "Invalid or missing authentication token"
	}
	return &Error{
		Code:    CodeUnauthorized,
		Message: message,
		Details: map[string]any{},
		Status:  http.StatusUnauthorized,
	}
}

// NewAuthorization returns a 403 FORBIDDEN error listing the scopes the
// caller was missing.
func NewAuthorization(message string, requiredScopes []string) *Error {
	details := map[string]any{}
	if len(requiredScopes) > 0 {
		details["required_scopes"] = requiredScopes
	}
	return &Error{
		Code:    CodeForbidden,
		Message: message,
		Details: details,
		Status:  http.StatusForbidden,
	}
}

// NewFormatNotSupported returns a 400 FORMAT_NOT_SUPPORTED error.
// supported lists at most the first few known formats as a hint; callers
// truncate before passing it in.
func NewFormatNotSupported(format, formatType string, supported []string) *Error {
	details := map[string]any{
		"format":      format,
		"format_type": formatType,
	}
	if len(supported) > 0 {
		details["supported_formats"] = supported
	}
	return &Error{
		Code:    CodeFormatNotSupported,
		Message: fmt.Sprintf("Format %q is not supported as %s", format, formatType),
		Details: details,
		Status:  http.StatusBadRequest,
	}
}

// NewConversion returns a 422 CONVERSION_FAILED error. The engine's
// diagnostic output, when present, goes into details for operator debugging.
func NewConversion(message, fromFormat, toFormat, engineError string) *Error {
	details := map[string]any{}
	if fromFormat != "" {
		details["from_format"] = fromFormat
	}
	if toFormat != "" {
		details["to_format"] = toFormat
	}
	if engineError != "" {
		details["pandoc_error"] = engineError
	}
	return &Error{
		Code:    CodeConversionFailed,
		Message: message,
		Details: details,
		Status:  http.StatusUnprocessableEntity,
	}
}

// NewTimeout returns a 504 TIMEOUT error for an engine run that exceeded
// the configured deadline.
func NewTimeout(timeoutSeconds int) *Error {
	return &Error{
		Code:    CodeTimeout,
		Message: fmt.Sprintf("Conversion timed out after %d seconds", timeoutSeconds),
		Details: map[string]any{"timeout_seconds": timeoutSeconds},
		Status:  http.StatusGatewayTimeout,
	}
}

// NewFileSize returns a 413 FILE_TOO_LARGE error.
func NewFileSize(fileSize, maxSize int64) *Error {
	return &Error{
		Code:    CodeFileTooLarge,
		Message: fmt.Sprintf("File size (%d bytes) exceeds maximum allowed (%d bytes)", fileSize, maxSize),
		Details: map[string]any{"file_size": fileSize, "max_size": maxSize},
		Status:  http.StatusRequestEntityTooLarge,
	}
}

// NewRateLimited returns a 429 RATE_LIMITED error with a fixed retry hint.
func NewRateLimited(retryAfterSeconds int) *Error {
	return &Error{
		Code:    CodeRateLimited,
		Message: "Too many requests. Please slow down.",
		Details: map[string]any{"retry_after_seconds": retryAfterSeconds},
		Status:  http.StatusTooManyRequests,
	}
}

// NewInvalidRequest returns a 400 INVALID_REQUEST error for malformed or
// incomplete request bodies.
func NewInvalidRequest(message string) *Error {
	return &Error{
		Code:    CodeInvalidRequest,
		Message: message,
		Details: map[string]any{},
		Status:  http.StatusBadRequest,
	}
}

// NewInternal returns a generic 500 error. Internal diagnostics never leak
// into the message; they belong in the server log.
func NewInternal() *Error {
	return &Error{
		Code:    CodeInternal,
		Message: "An internal error occurred. Please try again later.",
		Details: map[string]any{},
		Status:  http.StatusInternalServerError,
	}
}

// From classifies an arbitrary error. Typed *Error values pass through
// unchanged; anything else becomes a generic internal error so stray faults
// never leak diagnostics to clients.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternal()
}
