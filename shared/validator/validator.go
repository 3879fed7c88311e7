package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"parking/shared/failure"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)
}

// jsonName reports fields under the name clients send. Fields hidden from json keep their Go name.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "":
		return field.Name
	case "-":
		return ""
	default:
		return name
	}
}

// Register adds a custom tag. Domain packages call it from their own init so the rule lives next
// to the values it checks. It panics on a malformed tag, like the built-in registrations.
func Register(tag, message string, fn val.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}

	if message != "" {
		messages[tag] = message
	}
}

// Validate decodes one JSON document from r into data and validates it.
// Both malformed bodies and rule violations come back as invalid input.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

// normalizer is implemented by payloads that clean their own input, such as trimming free text,
// before the rules run.
type normalizer interface {
	Normalize()
}

func ValidateStruct[T any](data *T) error {
	if n, ok := any(data).(normalizer); ok {
		n.Normalize()
	}

	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
