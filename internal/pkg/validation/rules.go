package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/helphub/internal/pkg/apperrors"
)

var registerOnce sync.Once

// Register installs the custom rules and makes field errors report JSON names
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation("notblank", notBlank)
}

// RegisterWithGin installs the rules on gin's default validator. Safe to call repeatedly.
func RegisterWithGin() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			Register(v)
		}
	})
}

// fieldName prefers the json name, then the form name, then the Go name
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// notBlank rejects strings made only of whitespace
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// Translate turns binding errors into field level messages. It returns nil for
// errors that are not about the request body.
func Translate(err error) []apperrors.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperrors.FieldError{Field: path(fe), Message: Message(fe)})
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return []apperrors.FieldError{{Field: field, Message: fmt.Sprintf("%s must be of type %s", field, typeErr.Type)}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []apperrors.FieldError{{Field: "body", Message: "Malformed JSON"}}
	}

	if errors.Is(err, io.EOF) {
		return []apperrors.FieldError{{Field: "body", Message: "Request body is required"}}
	}

	return nil
}

// path drops the struct name from the namespace, e.g. participantIds[0]
func path(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		return fe.Field()
	}
	return ns
}

// Message creates a human-readable validation error message
func Message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s", field, quantity(fe))
		}
		return field + " must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s", field, quantity(fe))
		}
		return field + " must be at most " + fe.Param()
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gtfield":
		return field + " must be after " + lowerFirst(fe.Param())
	default:
		return field + " validation failed: " + fe.Tag()
	}
}

func quantity(fe validator.FieldError) string {
	unit := "characters"
	if fe.Kind() == reflect.Slice {
		unit = "items"
	}
	return fe.Param() + " " + unit
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
