package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeSchemaMismatch   ErrorType = "SCHEMA_MISMATCH"
	ErrTypeLoadFailure      ErrorType = "LOAD_FAILURE"
	ErrTypeDiffFailure      ErrorType = "DIFF_FAILURE"
	ErrTypeRenderFailure    ErrorType = "RENDER_FAILURE"
	ErrTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"
	ErrTypeValidation       ErrorType = "VALIDATION"
	ErrTypeStorage          ErrorType = "STORAGE"
	ErrTypeConfig           ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ContextKeys returns the context keys in sorted order.
func (e *AppError) ContextKeys() []string {
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// TypeOf returns the type of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// Helper functions for common error types

// NewSchemaMismatchError reports required columns absent from a disclosure file.
func NewSchemaMismatchError(file string, missing []string) *AppError {
	msg := fmt.Sprintf("missing expected columns in %s: [%s]", file, strings.Join(quoteAll(missing), ", "))
	return NewAppError(ErrTypeSchemaMismatch, msg, nil).
		WithContext("file", file).
		WithContext("missing_columns", missing)
}

// NewLoadError creates a disclosure load error
func NewLoadError(file string, cause error) *AppError {
	return NewAppError(ErrTypeLoadFailure, fmt.Sprintf("error loading and cleaning data from %s", file), cause).
		WithContext("file", file)
}

// NewDiffError creates a comparison error
func NewDiffError(message string, cause error) *AppError {
	return NewAppError(ErrTypeDiffFailure, message, cause)
}

// NewRenderError creates a chart rendering error
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRenderFailure, message, cause)
}

// NewInsufficientDataError reports that fewer than two disclosures were found.
func NewInsufficientDataError(fund string, found int) *AppError {
	return NewAppError(ErrTypeInsufficientData, "not enough data files for comparison", nil).
		WithContext("fund", fund).
		WithContext("files_found", found)
}

// NewNothingComparedError reports a run in which every pair failed to load or
// compare, leaving nothing to combine into a report.
func NewNothingComparedError(fund string, skipped int) *AppError {
	return NewAppError(ErrTypeDiffFailure, "no objects to concatenate", nil).
		WithContext("fund", fund).
		WithContext("pairs_skipped", skipped)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
