package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

// Validator returns the shared struct validator. Field names in its errors
// are the json names, Amount validates as its float value and a zero Date as
// an empty string.
func Validator() *validator.Validate {
	return validate
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch x := field.Interface().(type) {
		case Amount:
			return x.Value()
		case Date:
			return x.String()
		}
		return nil
	}, Amount{}, Date{})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}
