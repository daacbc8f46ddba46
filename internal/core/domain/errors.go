// Package domain defines the core domain models for NetKeep.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
// Codes have the form NK-<AREA>-<NNNN>; the last four digits follow the
// HTTP status they map to on the management API.
type DomainError struct {
	Code    string // Error code (e.g., "NK-CMD-5021")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
//
// A timeout also matches ErrCommandFailure: callers that only care whether
// an external command worked never need to special-case deadlines.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if e.Code == t.Code {
		return true
	}
	return e.Code == codeCommandTimeout && t.Code == codeCommandFailure
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

const (
	codeCommandFailure = "NK-CMD-5021"
	codeCommandTimeout = "NK-CMD-5041"
)

// Settings errors (CFG).
var (
	// ErrParseFailure indicates the durable settings tree could not be read.
	// Recovered locally by restoring the default template.
	ErrParseFailure = NewDomainError("NK-CFG-5001", "settings file unreadable")

	// ErrDefaultTemplate indicates the default template itself is broken.
	// This is the only settings error that is not recoverable.
	ErrDefaultTemplate = NewDomainError("NK-CFG-5002", "default settings template unreadable")

	// ErrMissingData indicates a lookup against an absent settings path.
	ErrMissingData = NewDomainError("NK-CFG-4041", "settings path not found")
)

// External command errors (CMD).
var (
	// ErrCommandFailure indicates an external tool exited non-zero or
	// produced unexpected output.
	ErrCommandFailure = NewDomainError(codeCommandFailure, "external command failed")

	// ErrCommandTimeout indicates a bounded external call exceeded its deadline.
	// errors.Is(ErrCommandTimeout, ErrCommandFailure) is true.
	ErrCommandTimeout = NewDomainError(codeCommandTimeout, "external command timed out")

	// ErrUnsupported indicates the platform cannot perform the operation.
	ErrUnsupported = NewDomainError("NK-CMD-5010", "operation not supported on this platform")
)

// Wi-Fi errors (WIFI).
var (
	// ErrNetworkNotFound indicates no saved network matched.
	ErrNetworkNotFound = NewDomainError("NK-WIFI-4041", "saved network not found")

	// ErrNoSavedNetwork indicates none of the saved networks could be joined.
	ErrNoSavedNetwork = NewDomainError("NK-WIFI-4042", "no saved network reachable")
)

// Argument errors (ARG).
var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("NK-ARG-4001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("NK-ARG-4002", "missing required argument")
)

// System errors (SYS).
var (
	// ErrInternal indicates an internal error.
	ErrInternal = NewDomainError("NK-SYS-5000", "internal error")

	// ErrStorage indicates the settings file could not be written.
	ErrStorage = NewDomainError("NK-SYS-5001", "storage error")

	// ErrRateLimited indicates the management API throttled a request.
	ErrRateLimited = NewDomainError("NK-SYS-4290", "too many requests")
)
