package client

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkStruct validates a request or response struct against its declared
// tags and converts validator failures into a *ValidationError with
// human-readable per-field messages.
func checkStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]FieldError, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, FieldError{
					Field:   strings.ToLower(fe.Field()),
					Message: fieldError(fe),
				})
			}
			return &ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

// checkResponse validates a decoded response value. Slices are validated
// element by element so a single bad record rejects the whole response.
func checkResponse(out any) error {
	rv := reflect.Indirect(reflect.ValueOf(out))
	switch rv.Kind() {
	case reflect.Slice:
		for i := 0; i < rv.Len(); i++ {
			el := reflect.Indirect(rv.Index(i))
			if el.Kind() != reflect.Struct {
				continue
			}
			if err := checkStruct(el.Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Struct:
		return checkStruct(rv.Interface())
	default:
		return nil
	}
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
