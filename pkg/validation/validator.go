package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// Errors report JSON field names and a few aliases are registered.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("pwd", "min=8") // password minimum length
	v.RegisterAlias("langcode", "min=2,max=50")
	// required only rejects "", so "   " needs its own check
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(f.String()) != ""
	})
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return map[string]string{"payload": "request body is empty"}
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return map[string]string{"payload": "invalid json"}
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		field := ute.Field
		if field == "" {
			field = "payload"
		}
		return map[string]string{field: "must be of type " + ute.Type.String()}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = message(fe.Tag(), fe.Param(), fe.Kind())
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// fixed messages for tags that take no parameter
var messages = map[string]string{
	"required":  "is required",
	"email":     "must be a valid email",
	"url":       "must be a valid URL",
	"uuid":      "must be a valid UUID",
	"alpha":     "must contain alphabetic characters only",
	"alphanum":  "must contain alphanumeric characters only",
	"lowercase": "must be in lowercase",
	"numeric":   "must be numeric",
	"base64url": "must be properly base64url encoded",
	"unique":    "must contain unique items",
	"pwd":       "min length 8",
	"langcode":  "must be a language code between 2 and 50 characters",
	"notblank":  "must not be blank",
}

func message(tag, param string, kind reflect.Kind) string {
	if m, ok := messages[tag]; ok {
		return m
	}
	unit := ""
	if !isNumberKind(kind) {
		unit = " characters long"
	}
	switch tag {
	case "len":
		return "must be exactly " + param + unit
	case "min":
		return "must be at least " + param + unit
	case "max":
		return "must be at most " + param + unit
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param
	case "eq":
		return "must be equal to " + param
	case "ne":
		return "must not be equal to " + param
	case "nefield":
		return "must differ from " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "containsany":
		return "must contain at least one of '" + param + "'"
	case "startswith":
		return "must start with '" + param + "'"
	}
	if param != "" {
		return "failed '" + tag + "=" + param + "' validation"
	}
	return "failed '" + tag + "' validation"
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
