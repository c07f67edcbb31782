package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg for structural problems: struct tags first, then the
// cross-field rules the tags cannot express. It returns the first failure.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return newFieldError(errs[0])
		}
		return err
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return NewInvalidFieldError("log.level", "unknown log level",
			[]string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"})
	}

	for alias := range cfg.DataSources {
		if alias == "" {
			return NewInvalidFieldError("datasources", "data source alias must not be empty", nil)
		}
	}

	return nil
}
