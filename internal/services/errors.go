package services

import (
	"errors"
	"fmt"

	apperrors "fundalloc/internal/errors"
)

// Describe renders err for console output: the AppError message without the
// type tag, followed by its cause.
func Describe(err error) string {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	if appErr.Cause != nil {
		return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
	}
	return appErr.Message
}

// IsInsufficientData reports whether a run stopped because fewer than two
// disclosures were found.
func IsInsufficientData(err error) bool {
	return apperrors.IsType(err, apperrors.ErrTypeInsufficientData)
}
