package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the base registry error.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Identifier is the dependency identifier the error concerns, if any.
	Identifier string `json:"identifier,omitempty"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code. It lets the
// package-level sentinels be used with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Sentinels for errors.Is. They match any AppError carrying the same code.
var (
	ErrDependencyResolution  = New(ErrCodeDependencyNotFound, "dependency not found")
	ErrIdentifierRequired    = New(ErrCodeIdentifierRequired, "identifier required")
	ErrNoInstantiationMethod = New(ErrCodeNoInstantiationMethod, "no instantiation method")
	ErrInitialization        = New(ErrCodeInitializationFailed, "initialization failed")
	ErrInjector              = New(ErrCodeInjectorFailed, "injector failed")
	ErrInvalidConfig         = New(ErrCodeInvalidConfig, "invalid configuration")
)

// --- Constructors ---

// DependencyResolution creates the error raised when a required identifier
// has no registry entry.
func DependencyResolution(identifier string) *AppError {
	return &AppError{
		Code:       ErrCodeDependencyNotFound,
		Message:    fmt.Sprintf("Dependency %s not found.", identifier),
		Identifier: identifier,
	}
}

// IdentifierRequired creates the error raised when an identifier must be
// derived from a type or field name and the target is anonymous.
func IdentifierRequired() *AppError {
	return &AppError{
		Code:    ErrCodeIdentifierRequired,
		Message: "An identifier is required: the target has no name to derive one from.",
	}
}

// NoInstantiationMethod creates the error raised when auto-construction was
// requested for a value that has no zero-argument constructor.
func NoInstantiationMethod(identifier string) *AppError {
	return &AppError{
		Code:       ErrCodeNoInstantiationMethod,
		Message:    fmt.Sprintf("Dependency %s has no zero-argument constructor.", identifier),
		Identifier: identifier,
	}
}

// Initialization creates the error raised when a user-supplied initializer fails.
func Initialization(identifier string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeInitializationFailed,
		Message:    fmt.Sprintf("Initializer for dependency %s failed.", identifier),
		Identifier: identifier,
		Cause:      cause,
	}
}

// Injector creates the catch-all error for unexpected failures while
// injecting dependency identifier.
func Injector(identifier string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeInjectorFailed,
		Message:    fmt.Sprintf("Injection of dependency %s failed.", identifier),
		Identifier: identifier,
		Cause:      cause,
	}
}

// InvalidConfig creates a new AppError for a configuration field that failed validation.
func InvalidConfig(field, reason string) *AppError {
	err := &AppError{
		Code:    ErrCodeInvalidConfig,
		Message: fmt.Sprintf("Invalid configuration: %s", reason),
	}
	if field != "" {
		err.WithDetail("field", field)
	}
	return err
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is, or wraps, an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
