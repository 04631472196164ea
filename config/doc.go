// Package config provides configuration loading and validation for injex
// services.
//
// It uses Viper to load config.yml (or config.yaml, injex.yml) from the
// service's cmd/ or config/ directory, then overlays environment variables,
// which an optional .env file loaded with godotenv may supply. Resolved
// sources are reported through the config component logger.
//
// # Usage
//
//	var cfg config.Config
//	if err := config.LoadConfig("my-service", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// Every key of the target struct is bound to the environment variable named
// after its path, so REGISTRY_NAME sets registry.name. WithEnvPrefix("APP")
// turns that into APP_REGISTRY_NAME.
package config
