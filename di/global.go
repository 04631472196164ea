package di

import (
	stderrors "errors"
	"sync"
)

// ErrGlobalInitialized is returned by SetGlobal once the global registry exists.
var ErrGlobalInitialized = stderrors.New("di: global registry already initialized")

var (
	globalMu sync.Mutex
	global   *Registry
)

// Global returns the process-wide registry, creating an empty one on first call.
func Global() *Registry {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = New()
	}
	return global
}

// SetGlobal installs r as the process-wide registry. It must be called
// before anything touches Global.
func SetGlobal(r *Registry) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global != nil {
		return ErrGlobalInitialized
	}
	global = r
	return nil
}

// ResetGlobal drops the process-wide registry. Intended for tests.
func ResetGlobal() {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = nil
}

// Register stores value under id in the global registry.
func Register(id Identifier, value any, opts ...Option) error {
	return Global().Register(id, value, opts...)
}

// Resolve returns the value registered under id in the global registry.
func Resolve(id Identifier) (any, error) {
	return Global().Resolve(id)
}

// Lookup returns the value registered under id in the global registry and
// whether one was found.
func Lookup(id Identifier) (any, bool) {
	return Global().Lookup(id)
}

func orGlobal(r *Registry) *Registry {
	if r == nil {
		return Global()
	}
	return r
}
