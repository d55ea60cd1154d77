package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/FlipResolver_Go/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("side", validateSide)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// keyed by lower-cased field name
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required", "required_without":
			errs[field] = "This field is required"
		case "side":
			errs[field] = ErrMsgInvalidSide
		case "gt":
			errs[field] = fmt.Sprintf("Must be greater than %s", e.Param())
		case "gte":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "gtefield":
			errs[field] = fmt.Sprintf("Must be at least %s", strings.ToLower(e.Param()))
		case "max":
			errs[field] = fmt.Sprintf("Must contain at most %s entries", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must contain at least %s entries", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// validateSide accepts "buy" or "sell". Empty is left to the required tag.
func validateSide(fl validator.FieldLevel) bool {
	side := fl.Field().String()
	if side == "" {
		return true
	}
	return domain.Side(strings.ToLower(side)).Valid()
}
