package di

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// zeroConstructor returns a constructor for T: a freshly allocated value
// for pointer types, the zero value otherwise.
func zeroConstructor[T any]() func() T {
	t := typeOf[T]()
	return func() T {
		var zero T
		if t.Kind() == reflect.Pointer {
			return reflect.New(t.Elem()).Interface().(T)
		}
		return zero
	}
}

// isNil reports whether v is nil or a typed nil reference.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// constructorOf returns a zero-argument constructor for value, if it has one.
// Constructible values are functions shaped func() X or func() (X, error),
// and reflect.Type values, which are instantiated like zeroConstructor does.
func constructorOf(value any) (func() (any, error), bool) {
	if t, ok := value.(reflect.Type); ok {
		return func() (any, error) {
			if t.Kind() == reflect.Pointer {
				return reflect.New(t.Elem()).Interface(), nil
			}
			return reflect.New(t).Elem().Interface(), nil
		}, true
	}

	fn := reflect.ValueOf(value)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, false
	}

	fnType := fn.Type()
	if fnType.NumIn() != 0 {
		return nil, false
	}
	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return nil, false
		}
	default:
		return nil, false
	}

	return func() (any, error) {
		return handleConstructorResults(fn.Call(nil))
	}, true
}

func handleConstructorResults(results []reflect.Value) (any, error) {
	instance := results[0].Interface()
	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return instance, nil
}

// safeCall runs fn, turning a panic into an error.
func safeCall[R any](fn func() (R, error)) (result R, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicError(p)
		}
	}()
	return fn()
}

func panicError(p any) error {
	if err, ok := p.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", p)
}
