package http

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()
	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return reHex32.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("dec2", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return math.Abs(f-(math.Round(f*100)/100)) < 1e-9
	})
	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// ToFieldErrors turns validator.ValidationErrors into readable field messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		var msg string
		switch e.Tag() {
		case "required":
			msg = "is required"
		case "hex32":
			msg = "must be 32-char lowercase hex"
		case "dec2":
			msg = "must have at most 2 decimal places"
		case "email":
			msg = "must be a valid email"
		case "oneof":
			msg = "must be one of: " + e.Param()
		case "gt":
			msg = "must be greater than " + e.Param()
		case "gte", "min":
			msg = "must be greater than or equal to " + e.Param()
		case "lte", "max":
			msg = "must be less than or equal to " + e.Param()
		default:
			msg = e.Tag() + " validation failed"
		}
		out = append(out, FieldError{Field: field, Message: msg})
	}
	return out
}
