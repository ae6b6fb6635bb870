package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SanitizeValidationError takes a validator error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	// Try to cast to validator.ValidationErrors
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Malformed JSON, wrong types or unparseable timestamps
		return "Invalid request body"
	}

	// Build user-friendly error messages from field-level errors
	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min", "gte":
			if isText(fe.Kind()) {
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
			}
		case "max", "lte":
			if isText(fe.Kind()) {
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
			}
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "url":
			messages = append(messages, fmt.Sprintf("%s must be a valid URL", field))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}

func isText(k reflect.Kind) bool {
	return k == reflect.String
}
