// Package validation wraps go-playground/validator with readable messages.
package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError is one failed rule on one field.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (f FieldError) message() string {
	switch f.Tag {
	case "required":
		return f.Field + " is required"
	case "oneof":
		return f.Field + " must be one of " + strings.ReplaceAll(f.Param, " ", ", ")
	case "email":
		return f.Field + " must be a valid email"
	case "max":
		return f.Field + " must be at most " + f.Param + " characters"
	default:
		return f.Field + " is invalid"
	}
}

// Errors collects every failed rule of a struct.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, f := range e {
		msgs = append(msgs, f.message())
	}
	return strings.Join(msgs, ", ")
}

// Missing reports whether any failure is a missing required field.
func (e Errors) Missing() bool {
	for _, f := range e {
		if f.Tag == "required" {
			return true
		}
	}
	return false
}

// Struct validates s and returns Errors, or nil when s is valid.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: lowerFirst(fe.Field()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// IsMissing reports whether err is a validation failure caused by a
// missing required field.
func IsMissing(err error) bool {
	var verrs Errors
	return errors.As(err, &verrs) && verrs.Missing()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
