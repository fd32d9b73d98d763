// Package errors defines the error types used by the IDL binding generator.
//
// Errors carry a stable code so callers can tell fatal input problems
// (missing metadata, malformed documents) apart from I/O and configuration
// failures with errors.Is, regardless of the message or wrapped cause.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the generator.
const (
	ErrCodeMissingMetadata = "MISSING_METADATA"
	ErrCodeMissingAddress  = "MISSING_ADDRESS"
	ErrCodeInvalidAddress  = "INVALID_ADDRESS"
	ErrCodeParseFailed     = "PARSE_FAILED"
	ErrCodeUnsupportedType = "UNSUPPORTED_TYPE"
	ErrCodeDiscoveryFailed = "DISCOVERY_FAILED"
	ErrCodeWriteFailed     = "WRITE_FAILED"
	ErrCodeInvalidConfig   = "INVALID_CONFIG"
	ErrCodeCustom          = "CUSTOM"
)

// Error represents a generator error.
type Error struct {
	// Code is a unique error code for this error type.
	Code string

	// Message is a human-readable error message.
	Message string

	// Cause is the underlying error, if any.
	Cause error

	// Details contains additional error context.
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the error matches the target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetails adds details to the error.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// NewError creates a new Error.
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Pre-defined errors. Match against them with Is; build new instances with
// the constructors below instead of attaching causes to these.
var (
	// ErrMissingMetadata is returned when a document has no metadata object.
	ErrMissingMetadata = NewError(ErrCodeMissingMetadata, "metadata cannot be empty")

	// ErrMissingAddress is returned when metadata has no address entry.
	ErrMissingAddress = NewError(ErrCodeMissingAddress, "metadata should contain 'address'")

	// ErrInvalidAddress matches any InvalidAddress error.
	ErrInvalidAddress = NewError(ErrCodeInvalidAddress, "invalid program address")

	// ErrParseFailed matches any ParseFailed error.
	ErrParseFailed = NewError(ErrCodeParseFailed, "failed to parse IDL")

	// ErrUnsupportedType matches any UnsupportedType error.
	ErrUnsupportedType = NewError(ErrCodeUnsupportedType, "unsupported IDL type")

	// ErrDiscoveryFailed matches any DiscoveryFailed error.
	ErrDiscoveryFailed = NewError(ErrCodeDiscoveryFailed, "failed to discover IDL files")

	// ErrWriteFailed matches any WriteFailed error.
	ErrWriteFailed = NewError(ErrCodeWriteFailed, "failed to write output")

	// ErrInvalidConfig matches any InvalidConfig error.
	ErrInvalidConfig = NewError(ErrCodeInvalidConfig, "invalid configuration")
)

// InvalidAddress creates an error for a metadata address that is not a string.
func InvalidAddress(value any) *Error {
	return NewError(ErrCodeInvalidAddress,
		fmt.Sprintf("address in metadata should be a string, got %T", value))
}

// ParseFailed creates an error for a document or element that could not be parsed.
func ParseFailed(what string, cause error) *Error {
	return NewError(ErrCodeParseFailed, fmt.Sprintf("failed to parse %s", what)).WithCause(cause)
}

// UnsupportedType creates an error for a type expression the model does not know.
func UnsupportedType(desc string) *Error {
	return NewError(ErrCodeUnsupportedType, fmt.Sprintf("unsupported type expression %s", desc))
}

// DiscoveryFailed creates an error for a directory that could not be scanned.
func DiscoveryFailed(dir string, cause error) *Error {
	return NewError(ErrCodeDiscoveryFailed, fmt.Sprintf("failed to scan %s", dir)).WithCause(cause)
}

// WriteFailed creates an error for an output artifact that could not be written.
func WriteFailed(path string, cause error) *Error {
	return NewError(ErrCodeWriteFailed, fmt.Sprintf("failed to write %s", path)).WithCause(cause)
}

// InvalidConfig creates an error for a rejected configuration value.
func InvalidConfig(reason string) *Error {
	return NewError(ErrCodeInvalidConfig, reason)
}

// Custom creates a custom error with the given message.
func Custom(message string) *Error {
	return NewError(ErrCodeCustom, message)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
