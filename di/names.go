package di

import "github.com/kbukum/injex/logger"

// CoreNames lists the identifiers under which bootstrap registers the
// infrastructure it builds. Projects embed this struct in their own names.
type CoreNames struct {
	Config   Name
	Logger   Name
	Metrics  Name
	Tracer   Name
	Registry Name
	Version  Name
}

// Core contains the identifiers used by bootstrap.
var Core = CoreNames{
	Config:   "config",
	Logger:   "logger",
	Metrics:  "metrics",
	Tracer:   "tracer",
	Registry: "registry",
	Version:  "version",
}

// LoggerComponent is the named logger a registry falls back to when none was
// supplied with WithLogger.
const LoggerComponent = logger.ComponentDI
