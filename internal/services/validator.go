package services

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"ledger-service/internal/models"
)

var coordinatesPattern = regexp.MustCompile(`^-?\d+(\.\d+)?,-?\d+(\.\d+)?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("coordinates", func(fl validator.FieldLevel) bool {
		return coordinatesPattern.MatchString(fl.Field().String())
	})
	return v
}

type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateTransaction checks every field constraint independently and returns
// all violations. A record with any violation is rejected as a whole.
func ValidateTransaction(t *models.Transaction) []FieldViolation {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldViolation{{Field: "", Message: err.Error()}}
	}

	violations := make([]FieldViolation, 0, len(errs))
	for _, fe := range errs {
		violations = append(violations, FieldViolation{
			Field:   fe.Field(),
			Message: violationMessage(fe),
		})
	}
	return violations
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "max":
		return fmt.Sprintf("%s must be between 1 and 100 characters", fe.Field())
	case "email":
		return fmt.Sprintf("%s is not a valid email address", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than zero", fe.Field())
	case "coordinates":
		return fmt.Sprintf("%s must be \"<latitude>,<longitude>\"", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
