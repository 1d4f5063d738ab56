// Package validation holds the request rules shared by every route: struct tag
// validation, ISO-8601 dates, identity normalization and money rounding.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Error is the first rule violation found in a request
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Errorf builds a validation Error for field
func Errorf(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseISO(fl.Field().String())
		return err == nil
	})
	return v
}

// Struct validates v and returns the first violation
func Struct(v interface{}) error {
	return first(validate.Struct(v), false)
}

// Partial validates v like Struct but ignores required rules on absent fields,
// used for merge-patch bodies. Array elements replace the stored array whole,
// so fields inside them keep their required rules.
func Partial(v interface{}) error {
	return first(validate.Struct(v), true)
}

func first(err error, partial bool) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if partial && isPresenceRule(fe.Tag()) && absent(fe.Value()) && !inArray(fe.Namespace()) {
			continue
		}
		name := fieldPath(fe.Namespace())
		return &Error{Field: name, Message: message(name, fe)}
	}
	return nil
}

func isPresenceRule(tag string) bool {
	return tag == "required" || strings.HasPrefix(tag, "required_")
}

func inArray(ns string) bool {
	return strings.ContainsRune(ns, '[')
}

func absent(v interface{}) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	}
	return false
}

// fieldPath drops the root struct name from a validator namespace
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without", "required_with":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be > %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "isodate":
		return field + " must be an ISO 8601 date"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	}
	return field + " is invalid"
}

// OneOf reports whether v is in allowed
func OneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
