package errors

import (
	"fmt"
)

// TrieError is the structured error type for triesearch.
// It provides rich context for error handling, logging, and user presentation.
type TrieError struct {
	// Code is the unique error code (e.g., "ERR_103_KEYFIELD_INVALID").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *TrieError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *TrieError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work against the exported sentinels.
func (e *TrieError) Is(target error) bool {
	if t, ok := target.(*TrieError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *TrieError) WithDetail(key, value string) *TrieError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *TrieError) WithSuggestion(suggestion string) *TrieError {
	e.Suggestion = suggestion
	return e
}

// New creates a new TrieError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *TrieError {
	return &TrieError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Newf is New with a formatted message and no cause.
func Newf(code string, format string, args ...any) *TrieError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates a TrieError from an existing error.
// The error's message becomes the TrieError message.
func Wrap(code string, err error) *TrieError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *TrieError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *TrieError {
	return New(ErrCodeFileNotFound, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *TrieError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *TrieError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if te, ok := err.(*TrieError); ok {
		return te.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a TrieError.
// Returns empty string if not a TrieError.
func GetCode(err error) string {
	if te, ok := err.(*TrieError); ok {
		return te.Code
	}
	return ""
}

// GetCategory extracts the category from a TrieError.
// Returns empty string if not a TrieError.
func GetCategory(err error) Category {
	if te, ok := err.(*TrieError); ok {
		return te.Category
	}
	return ""
}
