package http

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// validate is shared across handlers; validator instances cache struct
// metadata and are safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json tag names so field errors match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("password", validPassword)
	_ = v.RegisterValidation("fullname", validFullName)

	return v
}

// validPassword enforces the credential policy: at least 6 characters with
// one uppercase letter, one lowercase letter and one digit.
func validPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 6 {
		return false
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// validFullName accepts names of at least 2 characters made of letters and
// whitespace. The value is expected to be trimmed before validation.
func validFullName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	if len([]rune(name)) < 2 {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// checkRequest validates dst and collects every failing field into one
// aggregated list, so a request with a bad email and a weak password reports
// both at once.
func checkRequest(dst any) []FieldError {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return []FieldError{{Field: "request", Message: "Invalid request"}}
	}

	fieldErrors := make([]FieldError, 0, len(invalid))
	for _, fe := range invalid {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return fieldErrors
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "password":
		return "Must be at least 6 characters and contain an uppercase letter, a lowercase letter and a number"
	case "fullname":
		return "Must be at least 2 characters and contain only letters and spaces"
	default:
		return "Invalid value"
	}
}
