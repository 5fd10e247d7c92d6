package utils

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// otpFormat accepts exactly six ASCII digits.
func otpFormat(fl validator.FieldLevel) bool {
	otp := fl.Field().String()
	if len(otp) != 6 {
		return false
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RegisterValidators hooks custom rules into gin's binding validator.
// Malformed join codes are rejected before they reach the session service.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("otp", otpFormat)
	}
}
