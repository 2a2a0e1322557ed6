package controllers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pateando/pateando-api/models"
)

// RegisterValidators installs custom binding validators. Safe to call
// more than once.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("availability", func(fl validator.FieldLevel) bool {
			_, err := models.ParseAvailability(fl.Field().String())
			return err == nil
		})
	}
}
