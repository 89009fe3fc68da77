package validation

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "fundalloc/internal/errors"
	"fundalloc/internal/infrastructure"
)

// FieldError is one failed field rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StructValidator validates structs using `validate` tags
type StructValidator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewStructValidator creates a validator with the fund name rule registered
func NewStructValidator(logger *slog.Logger) *StructValidator {
	v := validator.New()

	v.RegisterValidation("fundname", isValidFundName)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &StructValidator{
		validator: v,
		logger:    infrastructure.WithComponent(logger, "struct_validator"),
	}
}

// ValidateStruct validates s and returns a Validation AppError listing every
// failed field.
func (sv *StructValidator) ValidateStruct(ctx context.Context, s interface{}) error {
	err := sv.validator.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewAppError(apperrors.ErrTypeValidation, "invalid request", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := formatValidationError(fe)
		fields = append(fields, FieldError{Field: fe.Field(), Message: msg})
		messages = append(messages, msg)
	}

	sv.logger.WarnContext(ctx, "Request validation failed",
		slog.Int("error_count", len(fields)),
		slog.String("errors", strings.Join(messages, "; ")))

	return apperrors.NewAppValidationError(strings.Join(messages, "; ")).
		WithContext("fields", fields)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()
	param := err.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Replace(param, " ", ", ", -1))
	case "fundname":
		return fmt.Sprintf("%s must be a plain fund name without path separators", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

// isValidFundName rejects names that cannot be part of a file name. The fund
// name is matched inside disclosure file names and embedded in output names.
func isValidFundName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if strings.TrimSpace(name) == "" {
		return false
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\:*?"<>|`) {
		return false
	}
	return len(name) <= 128
}
