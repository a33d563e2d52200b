package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apierrors "gddpanel/internal/errors"
)

// QueryValidator validates decoded query parameters against struct tags.
// Fields are named after their `query` tag in error details.
type QueryValidator struct {
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewQueryValidator creates a validator with the label rule registered.
func NewQueryValidator(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *QueryValidator {
	v := validator.New()

	_ = v.RegisterValidation("label", isLabel)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &QueryValidator{
		validator:    v,
		logger:       logger.With(slog.String("component", "query_validator")),
		errorHandler: errorHandler,
	}
}

// ValidateStruct validates a struct and returns validation errors
func (v *QueryValidator) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.NewAppValidationError(err.Error())
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// Validate validates s and writes a problem response when it fails.
// It reports whether the handler may continue.
func (v *QueryValidator) Validate(w http.ResponseWriter, r *http.Request, s interface{}) bool {
	if err := v.ValidateStruct(s); err != nil {
		v.logger.WarnContext(r.Context(), "query validation failed",
			slog.String("path", r.URL.Path),
			slog.String("query", r.URL.RawQuery),
		)
		v.errorHandler.HandleError(w, r, err)
		return false
	}
	return true
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "label":
		return fmt.Sprintf("%s may contain only letters, digits, spaces and basic punctuation", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isLabel accepts the printable names GDD uses for regions and variables,
// e.g. "Red meat" or "Côte d'Ivoire".
func isLabel(fl validator.FieldLevel) bool {
	for _, ch := range fl.Field().String() {
		switch {
		case unicode.IsLetter(ch), unicode.IsDigit(ch):
		case ch == ' ', ch == '-', ch == '_', ch == ',', ch == '.', ch == '(', ch == ')', ch == '\'':
		default:
			return false
		}
	}
	return true
}
