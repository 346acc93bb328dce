// Package config provides configuration management for the picks pipeline.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("curve", validateCurve)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCurve validates the probability curve name
func validateCurve(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "logistic", "normal":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Schedule.Enabled {
		if cfg.Schedule.MarketRefreshCron == "" && cfg.Schedule.ScoreFetchCron == "" {
			return fmt.Errorf("schedule enabled but no cron expressions configured")
		}
		if cfg.Schedule.CurrentWeek <= 0 {
			return fmt.Errorf("schedule enabled requires a positive current_week")
		}
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	msg := "configuration validation failed:"
	for _, e := range errs {
		msg += fmt.Sprintf("\n  - field %q failed rule %q", e.Namespace(), e.Tag())
	}
	return fmt.Errorf("%s", msg)
}
