package base

import (
	"fmt"
)

// ProtocolErrorKind is the kind of a ProtocolError.
type ProtocolErrorKind int

// protocol error kinds.
const (
	ProtocolErrorEmpty ProtocolErrorKind = iota
	ProtocolErrorCorruptStatusLine
	ProtocolErrorUnknownMethod
)

// ProtocolError is returned when a message can't be decoded.
type ProtocolError struct {
	Kind ProtocolErrorKind

	// offending value
	Value string
}

// Error implements the error interface.
func (e ProtocolError) Error() string {
	switch e.Kind {
	case ProtocolErrorEmpty:
		return "empty message"

	case ProtocolErrorCorruptStatusLine:
		return fmt.Sprintf("corrupt status line (%v)", e.Value)

	case ProtocolErrorUnknownMethod:
		return fmt.Sprintf("unknown method (%v)", e.Value)
	}
	return "protocol error"
}

// Is allows to match a ProtocolError by kind with errors.Is.
func (e ProtocolError) Is(target error) bool {
	t, ok := target.(ProtocolError)
	return ok && t.Kind == e.Kind
}

// errors that can be matched with errors.Is.
var (
	ErrEmptyMessage      = ProtocolError{Kind: ProtocolErrorEmpty}
	ErrCorruptStatusLine = ProtocolError{Kind: ProtocolErrorCorruptStatusLine}
	ErrUnknownMethod     = ProtocolError{Kind: ProtocolErrorUnknownMethod}
)

// HeaderErrorKind is the kind of a HeaderError.
type HeaderErrorKind int

// header error kinds.
const (
	HeaderErrorNonSymbolicKey HeaderErrorKind = iota
)

// HeaderError is returned when a header can't be stored.
type HeaderError struct {
	Kind HeaderErrorKind
	Key  string
}

// Error implements the error interface.
func (e HeaderError) Error() string {
	return fmt.Sprintf("invalid header key '%s'", e.Key)
}

// Is allows to match a HeaderError by kind with errors.Is.
func (e HeaderError) Is(target error) bool {
	t, ok := target.(HeaderError)
	return ok && t.Kind == e.Kind
}

// ErrNonSymbolicKey can be matched with errors.Is.
var ErrNonSymbolicKey = HeaderError{Kind: HeaderErrorNonSymbolicKey}

// ErrUnknownCode is returned when a status code has no reason phrase.
type ErrUnknownCode struct {
	Code StatusCode
}

// Error implements the error interface.
func (e ErrUnknownCode) Error() string {
	return fmt.Sprintf("unknown status code: %d", e.Code)
}
