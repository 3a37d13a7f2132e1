package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. Field names in validation
// errors are taken from the json tag so they line up with form field keys.
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
	return v
}

// fieldErrors runs struct validation and maps each failing field to its
// user-facing message. Unknown fields fall back to the raw validator text.
func fieldErrors(in any, messages map[string]string) map[string]string {
	errs := map[string]string{}

	err := validate.Struct(in)
	if err == nil {
		return errs
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range vErrs {
		field := fe.Field()
		if msg, ok := messages[field]; ok {
			errs[field] = msg
		} else {
			errs[field] = fe.Error()
		}
	}

	return errs
}
