package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/go-playground/validator/v10"
)

var (
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
)

// fieldLabels name the address form fields the way the storefront shows them.
var fieldLabels = map[string]string{
	"fullName":  "Full name",
	"firstName": "First name",
	"lastName":  "Last name",
	"street":    "Street address",
	"city":      "City",
	"state":     "State",
	"zipCode":   "Pincode",
	"country":   "Country",
	"phone":     "Phone number",
	"email":     "Email",
	"password":  "Password",
}

// NewValidator returns a validator that reports JSON field names and knows the
// storefront's pincode and phone formats.
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	_ = validate.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return validate
}

// ValidateStruct runs the validator and converts failures into a validation
// AppError carrying one message per field.
func ValidateStruct(validate *validator.Validate, data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		slog.Error("Unexpected validation error", slog.String("error", err.Error()))
		return appErrors.InternalError("Unexpected validation error").WithError(err)
	}

	return appErrors.ValidationError("Validation failed").
		WithFields(FieldMessages(validationErrs)).
		WithError(err)
}

// FieldMessages maps each failing field to its first user-facing message.
func FieldMessages(errs validator.ValidationErrors) map[string]string {
	messages := make(map[string]string, len(errs))

	for _, fe := range errs {
		if _, seen := messages[fe.Field()]; seen {
			continue
		}

		messages[fe.Field()] = FieldMessage(fe)
	}

	return messages
}

func FieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "pincode":
		return "Invalid pincode"
	case "phone":
		return "Invalid phone number"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
