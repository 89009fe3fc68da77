package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fundalloc/internal/errors"
	"fundalloc/internal/shared/testutil"
)

type runRequest struct {
	Fund   string `json:"fund" validate:"required,fundname"`
	Months int    `json:"months" validate:"gte=1"`
	Chart  string `json:"chart" validate:"omitempty,oneof=terminal workbook"`
}

func TestStructValidator_ValidateStruct(t *testing.T) {
	tests := []struct {
		name     string
		input    runRequest
		wantErr  bool
		messages []string
	}{
		{
			name:  "valid",
			input: runRequest{Fund: "ZN250", Months: 5},
		},
		{
			name:  "fund with spaces",
			input: runRequest{Fund: "Flexi Cap", Months: 1, Chart: "workbook"},
		},
		{
			name:     "missing fund",
			input:    runRequest{Months: 5},
			wantErr:  true,
			messages: []string{"fund is required"},
		},
		{
			name:     "path in fund",
			input:    runRequest{Fund: "../ZN250", Months: 5},
			wantErr:  true,
			messages: []string{"fund must be a plain fund name without path separators"},
		},
		{
			name:     "zero months",
			input:    runRequest{Fund: "ZN250", Months: 0},
			wantErr:  true,
			messages: []string{"months must be greater than or equal to 1"},
		},
		{
			name:    "every failure reported",
			input:   runRequest{Fund: "", Months: -1, Chart: "window"},
			wantErr: true,
			messages: []string{
				"fund is required",
				"months must be greater than or equal to 1",
				"chart must be one of: terminal, workbook",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, handler := testutil.NewTestLogger(t)
			err := NewStructValidator(logger).ValidateStruct(context.Background(), tt.input)

			if !tt.wantErr {
				assert.NoError(t, err)
				assert.Equal(t, 0, handler.Count())
				return
			}

			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			fields, ok := appErr.Context["fields"].([]FieldError)
			require.True(t, ok)

			got := make([]string, len(fields))
			for i, f := range fields {
				got[i] = f.Message
			}
			assert.Equal(t, tt.messages, got)
			assert.True(t, handler.ContainsMessage("Request validation failed"))
		})
	}
}

func TestStructValidator_NonStruct(t *testing.T) {
	err := NewStructValidator(nil).ValidateStruct(context.Background(), "not a struct")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}
