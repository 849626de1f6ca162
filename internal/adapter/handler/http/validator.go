package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestValidator plugs go-playground/validator into Echo so handlers can
// call c.Validate on bound request structs.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()

	// Report fields under their wire names, not Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RequestValidator{validate: v}
}

func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// validationErrorFields flattens validator errors into a per-field message
// map for 422 responses. Returns nil when err is not a validation error.
func validationErrorFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if ok := errors.As(err, &verrs); !ok {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		// Namespace starts with the request struct name; drop it.
		name := fe.Namespace()
		if idx := strings.Index(name, "."); idx >= 0 {
			name = name[idx+1:]
		}
		fields[name] = validationMessage(fe)
	}
	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Please enter a valid email address."
	case "max":
		return fmt.Sprintf("Cannot exceed %s characters.", fe.Param())
	case "oneof":
		return "Invalid plan name selected."
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", fe.Param())
	default:
		return "Invalid value."
	}
}
