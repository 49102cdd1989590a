package httpserver

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

var (
	uppercaseRe = regexp.MustCompile(`[A-Z]`)
	specialRe   = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Passwords need 8-16 characters with at least one uppercase letter
	// and one special character.
	_ = v.RegisterValidation("userpassword", func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		if len(password) < 8 || len(password) > 16 {
			return false
		}
		return uppercaseRe.MatchString(password) && specialRe.MatchString(password)
	})

	return v
}

// validationDetails flattens validator errors into a field -> message
// map suitable for an error response body.
func validationDetails(err error) map[string]string {
	details := make(map[string]string)
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		details["request"] = "invalid request payload"
		return details
	}
	for _, fe := range fieldErrors {
		details[fe.Field()] = validationMessage(fe)
	}
	return details
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "userpassword":
		return "must be 8-16 characters with an uppercase letter and a special character"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
