package validation

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator reports missing required fields by their JSON names.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator whose field names come from json tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// MissingFields validates s and returns the names of the fields that failed,
// in struct order and without duplicates. A nil slice means s is complete.
// The error is only set when s cannot be validated at all.
func (v *Validator) MissingFields(s any) ([]string, error) {
	err := v.v.Struct(s)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if !slices.Contains(missing, fe.Field()) {
			missing = append(missing, fe.Field())
		}
	}
	return missing, nil
}
