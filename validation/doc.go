// Package validation validates injex configuration.
//
// It supports struct tag validation (using the validator library) and
// programmatic validation with error collection for cross-field rules.
//
// # Struct Tag Validation
//
//	type RegistryConfig struct {
//	    Name string `mapstructure:"name" validate:"required"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Check(cfg.Telemetry.Endpoint != "", "telemetry.endpoint", "is required when metrics are enabled")
//	err := v.Validate()
package validation
