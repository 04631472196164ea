// Package errors provides the typed failures raised by the injex registry and
// its injection helpers. Every failure is an *AppError carrying a
// machine-readable code and the identifier it concerns.
package errors
