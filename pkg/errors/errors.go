package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Pattern errors
	ErrPatternControl ErrorCode = "PATTERN_CONTROL_CHARS"
	ErrPatternInvalid ErrorCode = "PATTERN_INVALID"

	// Matching errors
	ErrAmbiguousMatch ErrorCode = "AMBIGUOUS_MATCH"

	// I/O errors
	ErrLogRead         ErrorCode = "LOG_READ"
	ErrStoreRead       ErrorCode = "STORE_READ"
	ErrStoreWrite      ErrorCode = "STORE_WRITE"
	ErrSuggestionWrite ErrorCode = "SUGGESTION_WRITE"
)

// LogtrimError represents a structured error with code and details
type LogtrimError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *LogtrimError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *LogtrimError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *LogtrimError) Is(target error) bool {
	var targetErr *LogtrimError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new LogtrimError with the given code and message
func New(code ErrorCode, message string) *LogtrimError {
	return &LogtrimError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new LogtrimError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *LogtrimError {
	return &LogtrimError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a LogtrimError
func Wrap(err error, code ErrorCode, message string) *LogtrimError {
	if err == nil {
		return nil
	}
	return &LogtrimError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *LogtrimError {
	if err == nil {
		return nil
	}
	return &LogtrimError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *LogtrimError) WithDetail(key string, value interface{}) *LogtrimError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *LogtrimError) WithDetails(details map[string]interface{}) *LogtrimError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var ltErr *LogtrimError
	if errors.As(err, &ltErr) {
		return ltErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a LogtrimError
func GetErrorCode(err error) ErrorCode {
	var ltErr *LogtrimError
	if errors.As(err, &ltErr) {
		return ltErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a LogtrimError
func GetErrorDetails(err error) map[string]interface{} {
	var ltErr *LogtrimError
	if errors.As(err, &ltErr) {
		return ltErr.Details
	}
	return nil
}
