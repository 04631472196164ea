package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resolution errors
const (
	// ErrCodeDependencyNotFound indicates a required identifier has no entry.
	ErrCodeDependencyNotFound ErrorCode = "DEPENDENCY_NOT_FOUND"
	// ErrCodeIdentifierRequired indicates no identifier was given and none could be derived.
	ErrCodeIdentifierRequired ErrorCode = "IDENTIFIER_REQUIRED"
)

// Injection errors
const (
	// ErrCodeNoInstantiationMethod indicates a resolved value cannot be constructed without arguments.
	ErrCodeNoInstantiationMethod ErrorCode = "NO_INSTANTIATION_METHOD"
	// ErrCodeInitializationFailed indicates a user-supplied initializer failed.
	ErrCodeInitializationFailed ErrorCode = "INITIALIZATION_FAILED"
	// ErrCodeInjectorFailed wraps any other failure raised while injecting a field.
	ErrCodeInjectorFailed ErrorCode = "INJECTOR_FAILED"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates the loaded configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// passThroughCodes are surfaced unchanged by the field injector instead of
// being wrapped into an INJECTOR_FAILED error.
var passThroughCodes = map[ErrorCode]bool{
	ErrCodeDependencyNotFound:    true,
	ErrCodeNoInstantiationMethod: true,
	ErrCodeInitializationFailed:  true,
	ErrCodeIdentifierRequired:    true,
}

// IsPassThroughCode reports whether errors with this code keep their identity
// when they cross the field injector.
func IsPassThroughCode(code ErrorCode) bool {
	return passThroughCodes[code]
}
