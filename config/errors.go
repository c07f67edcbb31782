package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConfigError represents a configuration error with actionable guidance.
// All error messages are lowercase following Go conventions.
//
//nolint:revive // ConfigError is intentionally named for clarity in external API usage
type ConfigError struct {
	Field   string // config field path (e.g., "log.level", "datasources.primary")
	Message string // user-friendly error message (lowercase)
	Action  string // actionable instruction (lowercase)
}

// Error implements the error interface with lowercase formatting.
func (e *ConfigError) Error() string {
	parts := []string{"config:"}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Action != "" {
		parts = append(parts, e.Action)
	}

	return strings.Join(parts, " ")
}

// NewMissingFieldError creates an error for a required missing configuration field.
func NewMissingFieldError(field string) *ConfigError {
	envVar := envPrefix + strings.ToUpper(strings.ReplaceAll(field, ".", "_"))
	return &ConfigError{
		Field:   field,
		Message: "required",
		Action:  fmt.Sprintf("set %s or add %s to the config file", envVar, field),
	}
}

// NewInvalidFieldError creates an error for an invalid configuration value.
func NewInvalidFieldError(field, message string, validOptions []string) *ConfigError {
	err := &ConfigError{
		Field:   field,
		Message: message,
	}

	if len(validOptions) > 0 {
		err.Action = fmt.Sprintf("must be one of: %s", strings.Join(validOptions, ", "))
	}

	return err
}

// newFieldError maps a validator failure onto a ConfigError.
func newFieldError(fe validator.FieldError) *ConfigError {
	field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
	if fe.Tag() == "required" {
		return NewMissingFieldError(field)
	}
	return NewInvalidFieldError(field, fmt.Sprintf("failed %q validation", fe.Tag()), nil)
}
