package middleware

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs `validate` tags; handlers call it after binding.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
