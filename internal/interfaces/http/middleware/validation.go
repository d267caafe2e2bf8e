package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pyme/backend/internal/domain/analytics"
)

// SetupValidator configures the binding validator with the custom tags the
// dashboard request DTOs rely on. Safe to call more than once.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Use json/form tag names for field names in validation errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// periodkind accepts the reporting period names (week, month, quarter,
	// year).
	_ = v.RegisterValidation("periodkind", func(fl validator.FieldLevel) bool {
		return analytics.PeriodKind(fl.Field().String()).IsValid()
	})
}
