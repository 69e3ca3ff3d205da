package checkout

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/lnanh2k4/zentrix-sub001/internal/domain"
)

// Vietnamese mobile number: leading zero plus nine digits.
var phonePattern = regexp.MustCompile(`^0\d{9}$`)

// newValidator returns a configured validator with the storefront's custom
// rules registered.
func newValidator() *validatorv10.Validate {
	v := validatorv10.New()
	// Field errors key on the json tag so the form gets back the same names
	// it posted.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("vnphone", func(fl validatorv10.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidationError carries field-level messages back to the form. Recoverable;
// no backend call has been made when it is returned.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validateCustomer checks the checkout form fields before any backend call.
func validateCustomer(v *validatorv10.Validate, info domain.CustomerInfo) *ValidationError {
	err := v.Struct(info)
	if err == nil {
		return nil
	}

	invalid, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		return &ValidationError{Fields: map[string]string{"_": err.Error()}}
	}

	fields := make(map[string]string, len(invalid))
	for _, fe := range invalid {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "vnphone":
		return "must be a 10-digit phone number starting with 0"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
