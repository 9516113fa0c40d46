package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator over go-playground/validator,
// enforcing the `validate:` tags on the draft and roster request DTOs.
type CustomValidator struct {
	v *validator.Validate
}

// New creates a validator with the default tag-based rule set.
func New() *CustomValidator {
	return &CustomValidator{v: validator.New()}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
