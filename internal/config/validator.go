// File: internal/config/validator.go
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap/zapcore"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	colorNames = map[string]struct{}{
		"black": {}, "red": {}, "green": {}, "yellow": {},
		"blue": {}, "magenta": {}, "cyan": {}, "white": {},
	}
)

// validatorInstance configures and returns the shared validator used by Validate.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		// Report fields by their config key rather than the Go field name.
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})

		_ = v.RegisterValidation("log_level", func(fl validator.FieldLevel) bool {
			var level zapcore.Level
			return level.UnmarshalText([]byte(fl.Field().String())) == nil
		})

		_ = v.RegisterValidation("color_name", func(fl validator.FieldLevel) bool {
			_, ok := colorNames[fl.Field().String()]
			return ok
		})

		validateInst = v
	})

	return validateInst
}

// convertValidationError reports the first failing field by its dotted
// config key, e.g. "layout.viewport_width".
func convertValidationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err
	}

	ve := ves[0]
	// Namespace is "Config.layout.viewport_width"; drop the root type.
	field := ve.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	if ve.Param() != "" {
		return fmt.Errorf("%s failed validation for tag '%s=%s' (value %v)", field, ve.Tag(), ve.Param(), ve.Value())
	}
	return fmt.Errorf("%s failed validation for tag '%s' (value %v)", field, ve.Tag(), ve.Value())
}
