package logger

import "sync"

// Component names under which injex looks up its loggers.
const (
	ComponentDI        = "di"
	ComponentConfig    = "config"
	ComponentTelemetry = "telemetry"
)

var components sync.Map // component name -> *Logger

// Register installs l as the logger for component. A nil l removes the
// entry so the component falls back to the global logger again.
func Register(component string, l *Logger) {
	if l == nil {
		components.Delete(component)
		return
	}
	components.Store(component, l)
}

// RegisterComponents registers base, tagged with each component name, for
// every component listed.
func RegisterComponents(base *Logger, names ...string) {
	for _, name := range names {
		Register(name, base.WithComponent(name))
	}
}

// Get returns the logger registered for component. Unregistered components
// get the global logger tagged with their name.
func Get(component string) *Logger {
	if l, ok := components.Load(component); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(component)
}
