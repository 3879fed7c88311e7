package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const messageSeparator = "; "

var messages = map[string]string{
	"required": "{field} is required",
	"gt":       "{field} must be greater than {param}",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"min":      "{field} must be at least {param}",
	"max":      "{field} must be at most {param}",
	"oneof":    "{field} must be one of {param}",
	"uuid":     "{field} must be a valid UUID",
}

// message renders every field error, in struct order, using the json name of the field.
// Tags without a template fall back to the validator's own text.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	rendered := make([]string, 0, len(valErrors))

	for _, valErr := range valErrors {
		template, ok := messages[valErr.Tag()]
		if !ok {
			rendered = append(rendered, valErr.Error())

			continue
		}

		rendered = append(rendered, strings.NewReplacer(
			"{field}", valErr.Field(),
			"{param}", valErr.Param(),
		).Replace(template))
	}

	return strings.Join(rendered, messageSeparator)
}
