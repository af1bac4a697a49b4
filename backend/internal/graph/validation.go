package graph

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	apperrors "coursehub/backend/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// required alone accepts "   "; ids must carry a visible character
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	// Report fields by their wire names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks a tagged struct and reports the first failing field by its
// JSON name as a validation error.
func Validate(input interface{}) error {
	return validateInput(input)
}

// validateInput rejects malformed input before any statement is sent
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		reason := "failed " + fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		return apperrors.NewValidation(fe.Field(), reason)
	}
	return apperrors.NewValidation("input", err.Error())
}

func requireNodeID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewValidation(field, "must not be empty")
	}
	if len(id) > 128 {
		return apperrors.NewValidation(field, "too long")
	}
	return nil
}
