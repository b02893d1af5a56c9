// Package validation checks request input before it reaches a repository.
// Failures are reported as apperr validation errors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/templui/jobtracker/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names instead of Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"password": func(fl validator.FieldLevel) bool { return ValidatePassword(fl.Field().String()) == nil },
		"mailbox":  func(fl validator.FieldLevel) bool { return ValidateEmail(fl.Field().String()) == nil },
		"name":     func(fl validator.FieldLevel) bool { return ValidateName(fl.Field().String()) == nil },
		"status":   func(fl validator.FieldLevel) bool { return IsStatus(fl.Field().String()) },
	}
	for tag, fn := range rules {
		err := v.RegisterValidation(tag, fn)
		if err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", s, err)
	}

	issues := make([]apperr.Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, apperr.Issue{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return apperr.Validation(issues...)
}

// Var validates a single value against rules and returns the issue for field, or nil.
func Var(field string, value any, rules string) *apperr.Issue {
	err := validate.Var(value, rules)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &apperr.Issue{Field: field, Message: "is invalid"}
	}
	return &apperr.Issue{Field: field, Message: message(verrs[0])}
}

// fieldPath drops the top-level struct name from the namespace: "Input.job_title" -> "job_title"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	_, rest, found := strings.Cut(ns, ".")
	if !found {
		return fe.Field()
	}
	return rest
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email", "mailbox":
		value, _ := fe.Value().(string)
		err := ValidateEmail(value)
		if err != nil {
			return err.Error()
		}
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "status":
		return "must be one of: " + strings.Join(Statuses, ", ")
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "password":
		value, _ := fe.Value().(string)
		err := ValidatePassword(value)
		if err != nil {
			return err.Error()
		}
		return "is not a valid password"
	case "name":
		value, _ := fe.Value().(string)
		err := ValidateName(value)
		if err != nil {
			return err.Error()
		}
		return "is not a valid name"
	default:
		return "is invalid"
	}
}
