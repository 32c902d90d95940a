package utils

import (
	"reflect"
	"strings"
	"sync"

	"hotel-management/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const phoneTag = "phone10"

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags to gin's validator and
// makes field errors report JSON names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation(phoneTag, func(fl validator.FieldLevel) bool {
			return models.ValidPhone(strings.TrimSpace(fl.Field().String()))
		})
	})
}
