package domain

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"reflect"
	"strings"
)

type Validation struct {
	validator *validator.Validate
}

func NewValidation() *Validation {
	v := validator.New()
	// Report the JSON name of a field rather than the Go one
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validation{validator: v}
}

// ValidationError wraps the validator's FieldError
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (v ValidationError) Error() string {
	return fmt.Sprintf("Field '%s': %s", v.Field, v.Message)
}

// ValidationErrors is a slice of ValidationError
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, v := range ve {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

func (v *Validation) Validate(i interface{}) ValidationErrors {
	var errs ValidationErrors

	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return ValidationErrors{{Message: err.Error()}}
	}

	for _, fe := range validationErrors {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}

	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}
