package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindingErrors turns a binding failure into the field-level error list the
// envelope carries under "error-list".
func bindingErrors(err error) map[string]string {
	list := map[string]string{}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			field := strings.ToLower(fieldErr.Field())
			switch fieldErr.Tag() {
			case "required":
				list[field] = "This field is required."
			case "email":
				list[field] = "Enter a valid email address."
			case "min":
				list[field] = fmt.Sprintf("Must be at least %s characters.", fieldErr.Param())
			default:
				list[field] = "Invalid value."
			}
		}
		return list
	}
	list["non-field"] = err.Error()
	return list
}
