package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/kbukum/gokit-di/errors"
)

// FieldError is one failed check, keyed by the dotted config path of the field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates field errors from chained checks.
//
//	err := validation.New().
//	    Required("type", spec.Type).
//	    Pattern("calls[0].method", method, `^[A-Z]\w*$`).
//	    Validate()
type Validator struct {
	errors []FieldError
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a failure for field.
func (v *Validator) AddError(field, message string) *Validator {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
	return v
}

// Custom records message for field unless ok holds.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

// Required rejects blank strings.
func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(strings.TrimSpace(value) != "", field, "is required")
}

// Pattern rejects non-empty values that do not match pattern. Patterns are
// compiled once per process.
func (v *Validator) Pattern(field, value, pattern string) *Validator {
	if value == "" {
		return v
	}
	re, err := compile(pattern)
	return v.Custom(err == nil && re.MatchString(value), field, "does not match required format")
}

// OneOf rejects non-empty values outside allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	return v.Custom(slices.Contains(allowed, value), field,
		fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
}

// Merge adds the field errors of err, if it carries any, under prefix. An
// empty prefix keeps the field names as they are.
func (v *Validator) Merge(prefix string, err error) *Validator {
	if err == nil {
		return v
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return v.AddError(prefix, err.Error())
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok {
		return v.AddError(prefix, appErr.Message)
	}
	for _, f := range fields {
		if prefix != "" {
			f.Field = prefix + "." + f.Field
		}
		v.AddError(f.Field, f.Message)
	}
	return v
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool { return len(v.errors) > 0 }

// Errors returns the failed checks in the order they ran.
func (v *Validator) Errors() []FieldError { return v.errors }

// Validate returns an INVALID_INPUT AppError listing every failed check, or
// nil. The field errors are kept in Details["fields"] for Merge.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	return fieldErrors(v.errors)
}

func fieldErrors(fields []FieldError) *errors.AppError {
	messages := make([]string, len(fields))
	for i, e := range fields {
		messages[i] = e.Field + ": " + e.Message
	}
	appErr := errors.Validation(strings.Join(messages, "; "))
	appErr.Details = map[string]any{"fields": fields}
	return appErr
}

var patterns sync.Map

func compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patterns.Store(pattern, re)
	return re, nil
}
