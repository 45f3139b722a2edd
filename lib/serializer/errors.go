package serializer

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the error type returned by the serializer. It wraps an error code
// (of type ErrCode) and a message.
type Error struct {
	Code ErrCode // The error code
	Msg  string  // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("SerializationError (code %s): %s", e.Code, e.Msg)
}

// Is reports whether target is a *Error with the same code.
// This allows errors.Is(err, serializer.ErrUnsupportedValue).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

type ErrCode uint8

const (
	ErrCUnknown          ErrCode = iota // 0: Unknown error.
	ErrCUnsupportedValue                // 1: The value can not be rendered as JavaScript.
	ErrCCyclicReference                 // 2: The value references itself.
	ErrCInvalidOption                   // 3: The serializer was configured with an invalid option.
)

// String returns the string representation of an ErrCode.
func (c ErrCode) String() string {
	switch c {
	case ErrCUnsupportedValue:
		return "UnsupportedValue"
	case ErrCCyclicReference:
		return "CyclicReference"
	case ErrCInvalidOption:
		return "InvalidOption"
	default:
		return "Unknown"
	}
}

// Sentinel errors to be used with errors.Is
var (
	ErrUnsupportedValue = NewError(ErrCUnsupportedValue, "unsupported value")
	ErrCyclicReference  = NewError(ErrCCyclicReference, "cyclic reference")
	ErrInvalidOption    = NewError(ErrCInvalidOption, "invalid option")
)

func unsupportedValue(format string, args ...interface{}) *Error {
	return NewError(ErrCUnsupportedValue, "unsupported value: "+fmt.Sprintf(format, args...))
}

func cyclicReference(typeName string) *Error {
	return NewError(ErrCCyclicReference, "encountered a cycle via "+typeName)
}
