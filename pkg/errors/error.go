// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid series, prices, signals or configuration
//   - Data errors (200-299): Data source loading and query failures
//   - Performance errors (300-399): Pipeline calculation and runner state errors
//   - Result errors (400-499): Failures persisting backtest results
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidConfiguration, "initial capital must be positive")
//
//	// Reject caller input
//	err := errors.NewInvalidInputErrorf(errors.ErrCodeNonPositivePrice, "prices", "price at index %d is %v", i, p)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeEmptySeries) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InvalidInputError is returned when the caller hands the performance pipeline
// a series or configuration it cannot compute on (empty price series,
// non-positive prices, unsorted or duplicated timestamps, bad parameters).
// It unwraps to an *Error so GetCode reports the specific validation code.
type InvalidInputError struct {
	Field string // Input that failed validation, e.g. "prices"
	Err   *Error
}

// NewInvalidInputError creates a new InvalidInputError.
func NewInvalidInputError(code ErrorCode, field, message string) *InvalidInputError {
	return &InvalidInputError{
		Field: field,
		Err:   New(code, message),
	}
}

// NewInvalidInputErrorf creates a new InvalidInputError with a formatted message.
func NewInvalidInputErrorf(code ErrorCode, field, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{
		Field: field,
		Err:   Newf(code, format, args...),
	}
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Err.Error())
}

// Unwrap returns the coded error.
func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// IsInvalidInputError checks if an error is an InvalidInputError.
// It uses errors.As to check the error chain.
func IsInvalidInputError(err error) bool {
	var invalidErr *InvalidInputError

	return errors.As(err, &invalidErr)
}
