package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/deppfellow/monitoria-backend/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
//   - Define a request struct with validator tags (`validate:"required,min=1"`)
//   - Implement Validate() error that calls validation.Struct(req)
//   - Return validator.ValidationErrors (or CustomValidationErrors for custom cases)
type Validatable interface {
	Validate() error
}

// PathOnly marks payloads filled from path params alone. Their routes expect
// no body, so a body that is present is ignored instead of decoded.
type PathOnly interface {
	PathOnly()
}

// Normalizer is implemented by payloads that sanitize themselves after
// binding and before validation, e.g. trimming whitespace.
type Normalizer interface {
	Normalize()
}

// MessageProvider lets a payload replace the default field messages.
//
// Keys are "<field>.<tag>" for rule failures and "<field>.type" for values of
// the wrong JSON type.
type MessageProvider interface {
	ValidationMessages() map[string]string
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) fills the struct from path params and the JSON body;
//     PathOnly payloads bind path params only.
//  2. payload.Normalize() runs when implemented.
//  3. payload.Validate() applies validation rules.
//
// Any failure is a 400 *errs.HTTPError with field-level errors. payload must
// be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := bind(c, payload); err != nil {
		return bindError(err, messagesOf(payload))
	}

	if n, ok := payload.(Normalizer); ok {
		n.Normalize()
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func bind(c echo.Context, payload any) error {
	if _, ok := payload.(PathOnly); ok {
		return (&echo.DefaultBinder{}).BindPathParams(c, payload)
	}
	return c.Bind(payload)
}

func messagesOf(payload any) map[string]string {
	if p, ok := payload.(MessageProvider); ok {
		return p.ValidationMessages()
	}
	return nil
}

// bindError turns an Echo binding failure into a 400 that names the field
// when it can be recovered from the decoder error.
func bindError(err error, messages map[string]string) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := typeErr.Field
		msg, ok := messages[field+".type"]
		if !ok {
			msg = fmt.Sprintf("must be of type %s", jsonKind(typeErr.Type))
		}
		return errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{{
			Field: field,
			Error: msg,
		}}, nil)
	}

	var bindingErr *echo.BindingError
	if errors.As(err, &bindingErr) {
		return errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{{
			Field: bindingErr.Field,
			Error: "has an invalid value",
		}}, nil)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return errs.NewBadRequestError("Request body is not valid JSON", true, nil, nil, nil)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code != http.StatusBadRequest {
		// 415 and friends keep their status; the global handler renders them.
		return httpErr
	}

	return errs.NewBadRequestError("Invalid request body", true, nil, nil, nil)
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err, messagesOf(v))
	}
	return "", nil
}

func extractValidationError(err error, messages map[string]string) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, e := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: e.Field,
				Error: e.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a rule failure; still a client error, keep the text.
		return "Validation failed", []errs.FieldError{{Field: "body", Error: err.Error()}}
	}

	for _, e := range validationErrors {
		field := e.Field()
		msg, ok := messages[field+"."+e.Tag()]
		if !ok {
			msg = defaultMessage(e)
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}

func defaultMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"

	case "min":
		// min is a length for strings and a value for numbers
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())

	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		}
		return fmt.Sprintf("must not exceed %s", err.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(err.Param(), " ", ", "))

	case "posint":
		return "must be a positive integer"

	case "jsonobject":
		return "must be a JSON object"

	case "jsondoc":
		return "must be valid JSON"

	default:
		if err.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
		}
		return fmt.Sprintf("%s: %s", err.Field(), err.Tag())
	}
}
