package services

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/poofware/coi-service/internal/dtos"
)

// fieldMessages are the form messages the dashboard shows under each input.
var fieldMessages = map[string]map[string]string{
	"property":    {"required": "Property is required"},
	"tenantName":  {"required": "Tenant name is required"},
	"tenantEmail": {"required": "Tenant email is required", "email": "Email is invalid"},
	"unit":        {"required": "Unit is required"},
	"coiName":     {"required": "COI name is required"},
	"expiryDate": {
		"required": "Expiry date is required",
		"datetime": "Expiry date must be a valid date (YYYY-MM-DD)",
	},
	"name": {"required": "Property name is required"},
}

// NewValidator reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FormatValidationErrors converts validator errors into field-level details.
func FormatValidationErrors(errs validator.ValidationErrors) []dtos.ValidationErrorDetail {
	details := make([]dtos.ValidationErrorDetail, 0, len(errs))
	for _, err := range errs {
		details = append(details, fieldError(err.Field(), err.Tag(), err.Param()))
	}
	return details
}

func fieldError(field, tag, param string) dtos.ValidationErrorDetail {
	message, ok := fieldMessages[field][tag]
	if !ok {
		switch tag {
		case "required":
			message = fmt.Sprintf("Field '%s' is required", field)
		case "email":
			message = fmt.Sprintf("Field '%s' must be a valid email address", field)
		case "min":
			message = fmt.Sprintf("Field '%s' must be at least %s", field, param)
		case "oneof":
			message = fmt.Sprintf("Field '%s' must be one of [%s]", field, param)
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", field, tag)
		}
	}
	return dtos.ValidationErrorDetail{Field: field, Message: message, Code: "validation_" + tag}
}

// validateStruct runs struct-tag validation and returns the details, if any.
func validateStruct(v *validator.Validate, s any) ([]dtos.ValidationErrorDetail, error) {
	err := v.Struct(s)
	if err == nil {
		return nil, nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		return FormatValidationErrors(verrs), nil
	}
	return nil, err
}
