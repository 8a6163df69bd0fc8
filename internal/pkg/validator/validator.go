package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

var pinPattern = regexp.MustCompile(`^\d{4}$`)

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// User role validation
	validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		validRoles := []string{"customer", "owner", "salesrep", "admin"}
		for _, r := range validRoles {
			if role == r {
				return true
			}
		}
		return false
	})

	// Fuel type validation
	validate.RegisterValidation("fuel_type", func(fl validator.FieldLevel) bool {
		fuelType := fl.Field().String()
		validTypes := []string{"petrol", "diesel", "cng"}
		for _, t := range validTypes {
			if fuelType == t {
				return true
			}
		}
		return false
	})

	// Payment type validation
	validate.RegisterValidation("payment_type", func(fl validator.FieldLevel) bool {
		paymentType := fl.Field().String()
		validTypes := []string{"credit", "direct"}
		for _, t := range validTypes {
			if paymentType == t {
				return true
			}
		}
		return false
	})

	// 4-digit fueling PIN
	validate.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
		return pinPattern.MatchString(fl.Field().String())
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "user_role":
			errors[field] = "Invalid role. Must be: customer, owner, salesrep, or admin"
		case "fuel_type":
			errors[field] = "Invalid fuel type. Must be: petrol, diesel, or cng"
		case "payment_type":
			errors[field] = "Invalid payment type. Must be: credit or direct"
		case "pin":
			errors[field] = "PIN must be exactly 4 digits"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
