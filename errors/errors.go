package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegistry Phase = "registry" // table lifecycle and lookup
	PhaseConfig   Phase = "config"   // configuration translation
	PhaseOpen     Phase = "open"     // connection opening
	PhaseQuery    Phase = "query"    // statement preparation and execution
	PhasePrepare  Phase = "prepare"  // prepared statement lifecycle
	PhaseFetch    Phase = "fetch"    // cursor reads
	PhaseAppend   Phase = "append"   // bulk appender operations
	PhaseHost     Phase = "host"     // host-module boundary
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindNotInitialized     Kind = "not_initialized"
	KindAlreadyInitialized Kind = "already_initialized"
	KindNative             Kind = "native"
	KindDecode             Kind = "decode"
	KindInvalidInput       Kind = "invalid_input"
	KindClosed             Kind = "closed"
	KindExhausted          Kind = "exhausted"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NotFound creates a lookup-failure error for an identifier absent from its
// class table.
func NotFound(phase Phase, class string, id uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %d not found", class, id),
	}
}

// NotInitialized creates a not-initialized error for a table that has not
// been through Init.
func NotInitialized(phase Phase, class string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s table not initialized", class),
	}
}

// AlreadyInitialized creates an initialization-conflict error.
func AlreadyInitialized(class string) *Error {
	return &Error{
		Phase:  PhaseRegistry,
		Kind:   KindAlreadyInitialized,
		Detail: fmt.Sprintf("%s table already initialized", class),
	}
}

// Native wraps an engine failure, preserving the engine's message verbatim.
func Native(phase Phase, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindNative,
		Cause: cause,
	}
}

// Decode creates a configuration decode error for a recognized key whose
// value failed to convert to its expected type.
func Decode(key string, value any, want string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindDecode,
		Detail: fmt.Sprintf("option %q: cannot decode %v (%T) as %s", key, value, value, want),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Closed creates an error for use of a resource after its slot was removed.
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s closed", what),
	}
}
