package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	v.RegisterValidation("phone", validatePhone)

	// Validate booking times as the time.Time they wrap.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if bt, ok := field.Interface().(entities.BookingTime); ok {
			return bt.Time
		}
		return nil
	}, entities.BookingTime{})

	return v
}

// validatePhone accepts digits with an optional leading plus; spaces and
// dashes are ignored
func validatePhone(fl validator.FieldLevel) bool {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
	return phonePattern.MatchString(phone)
}

// validateStruct returns the first failed rule as a readable error
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}

	fe := fieldErrors[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "required_without":
		return fmt.Errorf("%s is required when %s is missing", fe.Field(), strings.ToLower(fe.Param()))
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Errorf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Errorf("%s must be at most %s", fe.Field(), fe.Param())
	case "phone":
		return fmt.Errorf("%s is not a valid phone number", fe.Field())
	default:
		return fmt.Errorf("%s is invalid", fe.Field())
	}
}
