package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures gin's validator to report field names from
// json/form tags instead of Go struct field names.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
}

// BindingErrorMessage turns a gin binding failure into a client-facing
// message. Validation failures list the offending fields; anything else
// (malformed JSON, wrong types) gets a generic message.
func BindingErrorMessage(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Corps de requête invalide"
	}
	parts := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		parts = append(parts, fieldMessage(e))
	}
	return "Requête invalide: " + strings.Join(parts, "; ")
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " est obligatoire"
	case "uuid":
		return e.Field() + " doit être un identifiant valide"
	case "min":
		return e.Field() + " doit être au moins " + e.Param()
	case "max":
		return e.Field() + " doit être au plus " + e.Param()
	case "gt":
		return e.Field() + " doit être supérieur à " + e.Param()
	case "gte":
		return e.Field() + " doit être supérieur ou égal à " + e.Param()
	case "oneof":
		return e.Field() + " doit être parmi: " + e.Param()
	default:
		return e.Field() + " est invalide"
	}
}
