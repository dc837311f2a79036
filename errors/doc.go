// Package errors provides structured error types for the duckling bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries a human-readable detail message and a cause
// chain; the engine's own message text is preserved verbatim in the cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseOpen, errors.KindNative).
//		Detail("open database %q", path).
//		Cause(engineErr).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseQuery, "connection", id)
//	err := errors.Native(errors.PhasePrepare, engineErr)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
