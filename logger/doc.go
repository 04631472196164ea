// Package logger provides structured logging for injex using zerolog.
//
// Each part of injex logs through a component logger looked up with Get:
// the registry under ComponentDI, the config loader under ComponentConfig,
// telemetry setup under ComponentTelemetry. bootstrap registers the
// application's logger for all of them; until then they fall back to the
// global logger tagged with the component name.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get(logger.ComponentDI).ForDependency("default", "ILogger")
//	log.Warn("Dependency ILogger is deprecated")
package logger
