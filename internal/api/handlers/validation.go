package handlers

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct проверяет теги `validate` модели запроса
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}
