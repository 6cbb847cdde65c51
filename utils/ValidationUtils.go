package utils

import (
	"net/http"
	"strings"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/exception"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateObject checks struct validate tags and maps failures to CustomError.
func ValidateObject(obj interface{}) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	missing := make([]string, 0)
	for _, fieldError := range validationErrors {
		if fieldError.Tag() == "required" {
			missing = append(missing, fieldError.Field())
		}
	}
	if len(missing) > 0 {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": strings.Join(missing, ", ")},
		}
	}

	fieldError := validationErrors[0]
	return &exception.CustomError{
		Status:  http.StatusBadRequest,
		Code:    exception.InvalidParameterValue,
		Message: exception.InvalidParameterValueMsg,
		Params:  map[string]interface{}{"param": fieldError.Field(), "value": fieldError.Value()},
		Debug:   fieldError.Error(),
	}
}
