// Package validator wraps go-playground struct validation and flattens
// failures into a field-to-rule map, used for config files and seed
// fixtures where gin binding is not in play.
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate returns nil when v satisfies its struct tags, otherwise a map
// of failing field name to the rule that rejected it.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
