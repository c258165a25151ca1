// Package errz defines the structured errors raised while compiling and
// running bfvm programs, along with their diagnostic formatting.
package errz

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrSource indicates the program source could not be opened or read.
	ErrSource ErrorKind = iota
	// ErrSyntax indicates unbalanced loop brackets.
	ErrSyntax
	// ErrRange indicates the data pointer left the tape.
	ErrRange
	// ErrIO indicates a failed byte read or write.
	ErrIO
	// ErrRuntime indicates a general runtime error.
	ErrRuntime
	// ErrInternal indicates a broken internal invariant.
	ErrInternal
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrSource:
		return "source error"
	case ErrSyntax:
		return "syntax error"
	case ErrRange:
		return "range error"
	case ErrIO:
		return "io error"
	case ErrRuntime:
		return "runtime error"
	case ErrInternal:
		return "internal error"
	default:
		return "error"
	}
}

// SourceLocation identifies where in a program an error was detected.
type SourceLocation struct {
	Filename string
	Line     int
	Column   int
}

// IsZero returns true if the location has not been set.
func (l SourceLocation) IsZero() bool {
	return l.Line == 0 && l.Column == 0
}

// StructuredError is the error type returned by the compiler and the
// virtual machine.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Code     ErrorCode
	Location SourceLocation
	Cause    error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Location.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
	}
	return fmt.Sprintf("%s: %s (%d:%d)", e.Kind.String(), e.Message, e.Location.Line, e.Location.Column)
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// HasLocation reports whether the error is attributed to a source position.
func (e *StructuredError) HasLocation() bool {
	return !e.Location.IsZero()
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// New creates a new StructuredError with no source location.
func New(kind ErrorKind, code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Message: message,
		Kind:    kind,
		Code:    code,
	}
}

// Newf creates a new StructuredError with a formatted message.
func Newf(kind ErrorKind, code ErrorCode, format string, args ...any) *StructuredError {
	return New(kind, code, fmt.Sprintf(format, args...))
}

// NewAt creates a new StructuredError attributed to a source location.
func NewAt(kind ErrorKind, code ErrorCode, loc SourceLocation, message string) *StructuredError {
	return &StructuredError{
		Message:  message,
		Kind:     kind,
		Code:     code,
		Location: loc,
	}
}

// KindOf returns the kind of the first StructuredError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is a StructuredError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
