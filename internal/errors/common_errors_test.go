package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "schema mismatch", errType: ErrTypeSchemaMismatch, expected: "SCHEMA_MISMATCH"},
		{name: "load failure", errType: ErrTypeLoadFailure, expected: "LOAD_FAILURE"},
		{name: "diff failure", errType: ErrTypeDiffFailure, expected: "DIFF_FAILURE"},
		{name: "render failure", errType: ErrTypeRenderFailure, expected: "RENDER_FAILURE"},
		{name: "insufficient data", errType: ErrTypeInsufficientData, expected: "INSUFFICIENT_DATA"},
		{name: "validation", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "storage", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "config", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeInsufficientData,
				Message: "not enough data files for comparison",
			},
			wantMessage: "[INSUFFICIENT_DATA] not enough data files for comparison",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeLoadFailure,
				Message: "error loading and cleaning data from a.xlsx",
				Cause:   fmt.Errorf("zip: not a valid zip file"),
			},
			wantMessage: "[LOAD_FAILURE] error loading and cleaning data from a.xlsx: zip: not a valid zip file",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	appErr := NewStorageError("write failed", cause)

	assert.Same(t, cause, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, cause))
	assert.Nil(t, NewAppValidationError("bad").Unwrap())
}

func TestAppError_WithContext_NilContext(t *testing.T) {
	appError := &AppError{Type: ErrTypeDiffFailure, Message: "Test error"}

	result := appError.WithContext("pair", 2)

	assert.Same(t, appError, result)
	require.NotNil(t, result.Context)
	assert.Equal(t, 2, result.Context["pair"])
}

func TestNewSchemaMismatchError(t *testing.T) {
	err := NewSchemaMismatchError("ZN250_2024_01.xlsx", []string{"ISIN", "% to NAV"})

	assert.Equal(t, ErrTypeSchemaMismatch, err.Type)
	assert.Contains(t, err.Error(), "ZN250_2024_01.xlsx")
	assert.Contains(t, err.Error(), `"ISIN"`)
	assert.Contains(t, err.Error(), `"% to NAV"`)
	assert.Equal(t, "ZN250_2024_01.xlsx", err.Context["file"])
	assert.Equal(t, []string{"ISIN", "% to NAV"}, err.Context["missing_columns"])
	assert.Equal(t, []string{"file", "missing_columns"}, err.ContextKeys())
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{name: "load", err: NewLoadError("a.xlsx", cause), wantType: ErrTypeLoadFailure},
		{name: "diff", err: NewDiffError("cannot compare", cause), wantType: ErrTypeDiffFailure},
		{name: "nothing compared", err: NewNothingComparedError("ZN250", 2), wantType: ErrTypeDiffFailure},
		{name: "render", err: NewRenderError("chart failed", cause), wantType: ErrTypeRenderFailure},
		{name: "insufficient", err: NewInsufficientDataError("ZN250", 1), wantType: ErrTypeInsufficientData},
		{name: "validation", err: NewAppValidationError("months must be positive"), wantType: ErrTypeValidation},
		{name: "storage", err: NewStorageError("write failed", cause), wantType: ErrTypeStorage},
		{name: "config", err: NewConfigError("bad policy", cause), wantType: ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestIsTypeAndTypeOf(t *testing.T) {
	base := NewLoadError("a.xlsx", errors.New("corrupt"))
	wrapped := fmt.Errorf("pair 1: %w", base)

	assert.True(t, IsType(wrapped, ErrTypeLoadFailure))
	assert.False(t, IsType(wrapped, ErrTypeDiffFailure))
	assert.False(t, IsType(errors.New("plain"), ErrTypeLoadFailure))
	assert.False(t, IsType(nil, ErrTypeLoadFailure))

	assert.Equal(t, ErrTypeLoadFailure, TypeOf(wrapped))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
}
