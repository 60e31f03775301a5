package middleware

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the `validate` tags on reqData and flattens the
// failures into a field->message map for the validation error envelope.
func ValidateStruct(reqData interface{}) map[string]string {
	err := validate.Struct(reqData)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["request"] = "Invalid request body"
		return errors
	}

	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field()[:1]) + fieldErr.Field()[1:]
		errors[field] = messageForTag(fieldErr)
	}
	return errors
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters long"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters long"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return "Invalid value for " + fe.Field()
	}
}
