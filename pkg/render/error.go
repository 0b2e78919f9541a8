package render

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an Error into the engine's failure taxonomy.
type ErrorKind int

const (
	// ErrInvalidOperation indicates an operation the engine cannot perform,
	// such as dispatching a custom escape mode without a custom formatter.
	ErrInvalidOperation ErrorKind = iota
	// ErrTemplateNotFound indicates a lookup for a template name that does
	// not exist in the active template source.
	ErrTemplateNotFound
	// ErrSyntax indicates malformed template source.
	ErrSyntax
	// ErrBadEscape indicates a malformed escape sequence in a string literal.
	ErrBadEscape
	// ErrBadSerialization indicates that serializing a value for structured
	// output failed. The underlying cause is attached to the error.
	ErrBadSerialization
	// ErrWriteFailure indicates that the output sink rejected a write.
	ErrWriteFailure
	// ErrUndefined indicates an operation on an undefined value that the
	// active configuration does not permit.
	ErrUndefined
)

// String returns a short human-readable description of the kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidOperation:
		return "invalid operation"
	case ErrTemplateNotFound:
		return "template not found"
	case ErrSyntax:
		return "syntax error"
	case ErrBadEscape:
		return "bad escape"
	case ErrBadSerialization:
		return "bad serialization"
	case ErrWriteFailure:
		return "write failure"
	case ErrUndefined:
		return "undefined value"
	default:
		return "unknown error"
	}
}

// Error is the engine's error type. Every failure the engine reports
// carries a Kind for programmatic handling, an optional human-readable
// detail string, and an optional underlying cause reachable via Unwrap.
type Error struct {
	Kind   ErrorKind
	Detail string
	source error
}

// NewError creates an Error with the given kind and detail message.
func NewError(kind ErrorKind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// WithSource attaches the underlying cause to the error and returns it.
func (e *Error) WithSource(err error) *Error {
	e.source = err
	return e
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.source
}

// IsError reports whether err is an engine Error of the given kind.
func IsError(err error, kind ErrorKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
