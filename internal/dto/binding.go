package dto

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rentledger/rentledger/internal/core/domain"
)

// RegisterBindings installs the custom "month" binding rule used by request
// fields that carry YYYY-MM values.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseMonth(fl.Field().String())
		return err == nil
	})
}
