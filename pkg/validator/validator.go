package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator adapts go-playground/validator to echo's Validator interface
// so handlers can call c.Validate on bound request structs.
type CustomValidator struct {
	v *validator.Validate
}

// New returns a CustomValidator ready to register on the echo instance.
func New() *CustomValidator {
	return &CustomValidator{v: validator.New()}
}

// Validate checks the struct tags on i and returns the first failure.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
