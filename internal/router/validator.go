package router

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "timesheet/internal/errors"
)

// CustomValidator wraps validator for Echo and reports failures as a ValidationError
// keyed by JSON field name.
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator builds a validator that names fields after their json tag.
func NewCustomValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// messageProvider is implemented by requests with their own messages, keyed "field.tag".
// List elements are matched with "*", as in "user_ids.*.gt".
type messageProvider interface {
	ValidationMessages() map[string]string
}

// checker is implemented by requests with rules struct tags cannot express.
type checker interface {
	Check(verr *apperrors.ValidationError)
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	verr := apperrors.NewValidationError()

	if err := cv.validator.Struct(i); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		var messages map[string]string
		if mp, ok := i.(messageProvider); ok {
			messages = mp.ValidationMessages()
		}
		for _, fe := range fieldErrs {
			field := fieldPath(fe.Namespace())
			verr.Add(field, message(messages, field, fe))
		}
	}

	if c, ok := i.(checker); ok {
		c.Check(verr)
	}
	return verr.OrNil()
}

// fieldPath turns "CreateProjectRequest.user_ids[1]" into "user_ids.1".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	return strings.NewReplacer("[", ".", "]", "").Replace(namespace)
}

func message(custom map[string]string, field string, fe validator.FieldError) string {
	if msg, ok := custom[field+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := custom[wildcard(field)+"."+fe.Tag()]; ok {
		return msg
	}

	label := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required":
		return "The " + label + " field is required."
	case "email":
		return "The " + label + " must be a valid email address."
	case "min":
		return "The " + label + " must be at least " + fe.Param() + sizeUnit(fe) + "."
	case "max":
		return "The " + label + " may not be greater than " + fe.Param() + sizeUnit(fe) + "."
	case "oneof":
		return "The selected " + label + " is invalid."
	default:
		return "The " + label + " field is invalid."
	}
}

func sizeUnit(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	}
	return ""
}

// wildcard replaces list indexes with "*".
func wildcard(field string) string {
	parts := strings.Split(field, ".")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = "*"
		}
	}
	return strings.Join(parts, ".")
}
