package itemcodec

import (
	"errors"
	"fmt"
)

// Position is a byte offset into the input or output stream a value came
// from or was written to. Every error in this package carries one.
type Position int64

func (p Position) String() string {
	return fmt.Sprintf("position %d", int64(p))
}

// Sentinel errors identifying the stable error kinds this package raises.
// Use errors.Is against these, not string matching.
var (
	// ErrUnexpectedEndOfInput means bytes were needed mid-item but the
	// input (and its padding provider, if any) could not supply them.
	ErrUnexpectedEndOfInput = errors.New("itemcodec: unexpected end of input")

	// ErrInvalidInputData means the bytes are structurally malformed
	// (reserved additional-info value, bad UTF-8, broken JSON grammar, ...).
	ErrInvalidInputData = errors.New("itemcodec: invalid input data")

	// ErrOverflow means a length or value exceeds a representable or
	// configured bound (byte/text/array/map length >= 2^63, output > 2^31).
	ErrOverflow = errors.New("itemcodec: overflow")

	// ErrUnsupported means the bytes are well-formed CBOR/JSON but use a
	// feature this engine does not implement (e.g. an unrecognised major-7
	// additional-info code).
	ErrUnsupported = errors.New("itemcodec: unsupported")

	// ErrGeneral wraps a panic or unexpected error surfacing from
	// user-supplied Decoder/Encoder code so every error stays positioned.
	ErrGeneral = errors.New("itemcodec: general failure")

	// ErrParserClosed names the terminal state a Parser is in once it has
	// raised any of the errors above. The parsers in this module do not
	// return it: they keep no error state, and a caller discards a parser
	// after its first error (see Parser).
	ErrParserClosed = errors.New("itemcodec: parser is no longer usable after an error")

	// ErrNilInput/ErrNilOutput: constructing a Reader/Writer façade around a
	// nil Parser/Renderer is a programmer error.
	ErrNilInput  = errors.New("itemcodec: NewReader called with a nil Parser")
	ErrNilOutput = errors.New("itemcodec: NewWriter called with a nil Renderer")
)

// Error is the concrete positioned error type every failure in this module
// is wrapped in. It implements errors.Is against the sentinel it wraps and
// errors.Unwrap so callers can inspect the underlying cause.
type Error struct {
	Kind     error // one of the Err* sentinels above
	Position Position
	Message  string
	Cause    error // set only for ErrGeneral
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s at %s: %s: %v", e.Kind, e.Position, e.Message, e.Cause)
	}
	if e.Message == "" {
		return fmt.Sprintf("%s at %s", e.Kind, e.Position)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Position, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func newErr(kind error, pos Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Position: pos, Message: fmt.Sprintf(format, args...)}
}

// UnexpectedEndOfInput constructs a positioned ErrUnexpectedEndOfInput.
func UnexpectedEndOfInput(pos Position, expected int) *Error {
	return newErr(ErrUnexpectedEndOfInput, pos, "expected %d more byte(s)", expected)
}

// InvalidInputData constructs a positioned ErrInvalidInputData.
func InvalidInputData(pos Position, format string, args ...any) *Error {
	return newErr(ErrInvalidInputData, pos, format, args...)
}

// Overflow constructs a positioned ErrOverflow.
func Overflow(pos Position, format string, args ...any) *Error {
	return newErr(ErrOverflow, pos, format, args...)
}

// Unsupported constructs a positioned ErrUnsupported.
func Unsupported(pos Position, format string, args ...any) *Error {
	return newErr(ErrUnsupported, pos, format, args...)
}

// General wraps an unexpected failure from user code with a position so
// every error leaving this package stays positioned.
func General(pos Position, cause error) *Error {
	return &Error{Kind: ErrGeneral, Position: pos, Cause: cause}
}
