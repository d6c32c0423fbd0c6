package utils

import (
	"main/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = validator.New()
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidators(v)
	}
	registerCustomValidators(Validate)
}

func registerCustomValidators(v *validator.Validate) {
	v.RegisterValidation("severity", ValidateSeverityRule)
	v.RegisterValidation("threatstatus", ValidateThreatStatusRule)
	v.RegisterValidation("adminaction", ValidateAdminActionRule)
}

func ValidateSeverityRule(fl validator.FieldLevel) bool {
	return model.ValidSeverity(fl.Field().String())
}

func ValidateThreatStatusRule(fl validator.FieldLevel) bool {
	return model.ValidThreatStatus(model.ThreatStatus(fl.Field().String()))
}

func ValidateAdminActionRule(fl validator.FieldLevel) bool {
	_, ok := model.AdminStateFor(fl.Field().String())
	return ok
}
