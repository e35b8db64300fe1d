package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var colorCodePattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// FieldError is a single rejected request field
type FieldError struct {
	Field   string
	Message string
}

// Validator checks request bodies against their `validate` tags. It
// implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their json names
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("color_code", validateColorCode)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)

	// NullDecimal is validated by its string form so "required" rejects
	// a missing amount instead of treating the zero struct as present.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.NullDecimal); ok {
			if !d.Valid {
				return nil
			}
			return d.Decimal.String()
		}
		return nil
	}, decimal.NullDecimal{})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate implements echo.Validator
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

// FieldErrors flattens a validation failure into per-field messages. It
// returns nil for errors that did not come from the validator.
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	result := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		result = append(result, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return result
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be %s characters or less", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in %s format", fe.Field(), fe.Param())
	case "color_code":
		return fmt.Sprintf("%s must be a hex color like #1a2b3c", fe.Field())
	case "transaction_type":
		return fmt.Sprintf("%s must be INCOME or EXPENSE", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func validateColorCode(fl validator.FieldLevel) bool {
	return colorCodePattern.MatchString(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch strings.ToUpper(fl.Field().String()) {
	case "INCOME", "EXPENSE":
		return true
	default:
		return false
	}
}
