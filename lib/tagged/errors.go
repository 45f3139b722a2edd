package tagged

import "fmt"

// Error is returned for documents that can't be parsed or decoded
type Error struct {
	Code ErrCode // The error code
	Msg  string  // A human-readable error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("TaggedDocumentError (code %s): %s", e.Code, e.Msg)
}

// Is reports whether target is a *Error with the same code.
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

// ErrCode is the error code of an Error
type ErrCode uint8

const (
	ErrCUnknown       ErrCode = iota // 0: Unknown error.
	ErrCSyntax                       // 1: The document is not valid JSON or YAML.
	ErrCBadTag                       // 2: A tag has an invalid argument.
	ErrCUnknownFormat                // 3: The document format is not supported.
	ErrCInvalidTag                   // 4: A tag name can't be registered.
	ErrCLimit                        // 5: The document exceeds a size limit.
)

// String returns the string representation of an ErrCode.
func (c ErrCode) String() string {
	switch c {
	case ErrCSyntax:
		return "Syntax"
	case ErrCBadTag:
		return "BadTag"
	case ErrCUnknownFormat:
		return "UnknownFormat"
	case ErrCInvalidTag:
		return "InvalidTag"
	case ErrCLimit:
		return "Limit"
	default:
		return "Unknown"
	}
}

// Sentinel errors to be used with errors.Is
var (
	ErrSyntax        = NewError(ErrCSyntax, "syntax error")
	ErrBadTag        = NewError(ErrCBadTag, "bad tag")
	ErrUnknownFormat = NewError(ErrCUnknownFormat, "unknown format")
	ErrInvalidTag    = NewError(ErrCInvalidTag, "invalid tag")
	ErrLimit         = NewError(ErrCLimit, "limit exceeded")
)

func badTag(tag string, format string, args ...any) *Error {
	return NewError(ErrCBadTag, tag+": "+fmt.Sprintf(format, args...))
}

func syntaxError(format string, args ...any) *Error {
	return NewError(ErrCSyntax, fmt.Sprintf(format, args...))
}

func limitExceeded(format string, args ...any) *Error {
	return NewError(ErrCLimit, fmt.Sprintf(format, args...))
}
