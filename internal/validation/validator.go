package validation

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name: the path param for ids, the JSON key
	// for body fields.
	v.RegisterTagNameFunc(fieldName)

	_ = v.RegisterValidation("posint", isPositiveInt)
	_ = v.RegisterValidation("jsonobject", isJSONObject)
	_ = v.RegisterValidation("jsondoc", isJSONDocument)

	return v
}

func fieldName(f reflect.StructField) string {
	if name := tagName(f.Tag.Get("param")); name != "" {
		return name
	}
	if name := tagName(f.Tag.Get("json")); name != "" {
		return name
	}
	return strings.ToLower(f.Name)
}

func tagName(tag string) string {
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Struct validates s with the shared validator.
func Struct(s any) error {
	return validate.Struct(s)
}

// IsPositiveInt reports whether s is a base-10 integer >= 1.
func IsPositiveInt(s string) bool {
	n, err := strconv.ParseInt(s, 10, 64)
	return err == nil && n >= 1
}

func isPositiveInt(fl validator.FieldLevel) bool {
	return IsPositiveInt(fl.Field().String())
}

func isJSONObject(fl validator.FieldLevel) bool {
	raw := bytes.TrimSpace(fl.Field().Bytes())
	return len(raw) > 0 && raw[0] == '{' && json.Valid(raw)
}

// isJSONDocument accepts an object or array, either inline or encoded inside
// a JSON string ("{\"seg\":[\"10:00\"]}").
func isJSONDocument(fl validator.FieldLevel) bool {
	_, ok := DecodeJSONDocument(fl.Field().Bytes())
	return ok
}

// DecodeJSONDocument returns the object or array held by raw, unwrapping one
// level of string encoding.
func DecodeJSONDocument(raw []byte) (json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !json.Valid(raw) {
		return nil, false
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, false
		}
		raw = bytes.TrimSpace([]byte(inner))
		if len(raw) == 0 || !json.Valid(raw) {
			return nil, false
		}
	}

	if raw[0] != '{' && raw[0] != '[' {
		return nil, false
	}
	return json.RawMessage(raw), true
}
