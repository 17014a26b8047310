// Package hackberry provides incremental parsing of HTTP/1.x request frames
// arriving in arbitrary fragmentation over a byte stream.
package hackberry

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
// These can be checked using errors.Is().
var (
	// ErrNeedMoreData indicates the buffer does not yet hold a complete frame.
	// The parse attempt consumed nothing; retry after appending more bytes.
	ErrNeedMoreData = errors.New("hackberry: need more data")

	// ErrUnexpectedEOF indicates the stream ended in the middle of a frame.
	ErrUnexpectedEOF = errors.New("hackberry: unexpected end of stream")

	// ErrMalformedStartLine indicates the start line does not consist of
	// three tokens (method, target, protocol).
	ErrMalformedStartLine = errors.New("hackberry: malformed start line")

	// ErrMalformedHeader indicates a header line is not of the form "name: value".
	ErrMalformedHeader = errors.New("hackberry: malformed header line")

	// ErrInvalidHeaderName indicates a header name contains invalid characters.
	// Only reported when Options.StrictHeaderNames is set.
	ErrInvalidHeaderName = errors.New("hackberry: invalid header name")

	// ErrInvalidContentLength indicates the content-length value is not a
	// non-negative integer.
	ErrInvalidContentLength = errors.New("hackberry: invalid content-length")

	// ErrHeaderTooLarge indicates the header block exceeds Limits.MaxHeaderBytes.
	ErrHeaderTooLarge = errors.New("hackberry: header block too large")

	// ErrTooManyHeaders indicates the header count exceeds Limits.MaxHeaderCount.
	ErrTooManyHeaders = errors.New("hackberry: too many header lines")

	// ErrBodyTooLarge indicates the declared body length exceeds Limits.MaxBodyBytes.
	ErrBodyTooLarge = errors.New("hackberry: declared body too large")
)

// ParseError provides detailed context for frame parsing failures.
// It implements the error interface and supports error unwrapping.
type ParseError struct {
	// Offset is the byte offset from the read cursor where the error occurred,
	// or -1 if not applicable.
	Offset int

	// Line is the 1-based header line number involved, or 0 if not applicable.
	// Line 1 is the start line.
	Line int

	// Message describes what went wrong.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a formatted error message.
func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Offset >= 0:
		return fmt.Sprintf("hackberry: parse line %d at offset %d: %s", e.Line, e.Offset, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("hackberry: parse line %d: %s", e.Line, e.Message)
	case e.Offset >= 0:
		return fmt.Sprintf("hackberry: parse at offset %d: %s", e.Offset, e.Message)
	default:
		return fmt.Sprintf("hackberry: parse: %s", e.Message)
	}
}

// Unwrap returns the underlying cause of the error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether the error matches the target.
// This supports errors.Is() for checking the cause.
func (e *ParseError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// NewParseError creates a new ParseError.
func NewParseError(message string, cause error) *ParseError {
	return &ParseError{
		Offset:  -1,
		Message: message,
		Cause:   cause,
	}
}

// NewParseErrorAt creates a new ParseError with line and offset information.
func NewParseErrorAt(line, offset int, message string, cause error) *ParseError {
	return &ParseError{
		Offset:  offset,
		Line:    line,
		Message: message,
		Cause:   cause,
	}
}

// IsIncomplete returns true if the error means the frame is not fully buffered
// yet and the parse should be retried after more input arrives.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrNeedMoreData)
}

// IsMalformed returns true if the error indicates an unparseable frame.
// Such frames never become valid with more input; the surrounding connection
// handling should treat the stream as poisoned.
func IsMalformed(err error) bool {
	switch {
	case errors.Is(err, ErrMalformedStartLine),
		errors.Is(err, ErrMalformedHeader),
		errors.Is(err, ErrInvalidHeaderName),
		errors.Is(err, ErrInvalidContentLength):
		return true
	default:
		return false
	}
}

// IsLimitExceeded returns true if the error indicates a configured limit was exceeded.
func IsLimitExceeded(err error) bool {
	switch {
	case errors.Is(err, ErrHeaderTooLarge),
		errors.Is(err, ErrTooManyHeaders),
		errors.Is(err, ErrBodyTooLarge):
		return true
	default:
		return false
	}
}

// WrapError wraps an error with additional context.
// If the error is nil, nil is returned.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
