package di

import (
	"fmt"

	"github.com/kbukum/injex/errors"
)

// ResolveAs resolves id and asserts the value to T. A value of another type
// is an INJECTOR_FAILED error. A nil r means the global registry.
//
// Example:
//
//	mailer, err := di.ResolveAs[*Mailer](registry, di.Name("mailer"))
//	if err != nil {
//	    return fmt.Errorf("resolving mailer: %w", err)
//	}
func ResolveAs[T any](r *Registry, id Identifier) (T, error) {
	var zero T
	instance, err := orGlobal(r).Resolve(id)
	if err != nil {
		return zero, err
	}
	return assertAs[T](id, instance)
}

// MustResolve is ResolveAs that panics on error.
func MustResolve[T any](r *Registry, id Identifier) T {
	result, err := ResolveAs[T](r, id)
	if err != nil {
		panic(err)
	}
	return result
}

// TryResolve resolves id, returning the zero value and false if it is
// missing, fails to construct or holds a value of another type.
//
// Example:
//
//	if metrics, ok := di.TryResolve[*observability.Metrics](registry, di.Core.Metrics); ok {
//	    metrics.RecordRegistration(ctx, "default")
//	}
func TryResolve[T any](r *Registry, id Identifier) (T, bool) {
	var zero T
	instance, ok := orGlobal(r).Lookup(id)
	if !ok {
		return zero, false
	}
	result, err := assertAs[T](id, instance)
	if err != nil {
		return zero, false
	}
	return result, true
}

// assertAs converts v to T. A nil v converts to the zero value.
func assertAs[T any](id Identifier, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	result, ok := v.(T)
	if !ok {
		return zero, errors.Injector(identifierString(id),
			fmt.Errorf("dependency is %T, expected %s", v, typeOf[T]()))
	}
	return result, nil
}
