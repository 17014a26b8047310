// Package httplex provides low-level lexical primitives for the HTTP/1.x wire format.
package httplex

import "errors"

// Line and block delimiters of the wire format.
const (
	// CRLF terminates a start line or header line.
	CRLF = "\r\n"

	// HeaderTerminator is the blank line ending a header block.
	HeaderTerminator = "\r\n\r\n"
)

// Errors for numeric field parsing.
var (
	// ErrEmptyNumber indicates an empty numeric field.
	ErrEmptyNumber = errors.New("httplex: empty number")

	// ErrNonDigit indicates a non-digit byte in a numeric field.
	ErrNonDigit = errors.New("httplex: non-digit in number")

	// ErrNumberOverflow indicates a numeric field overflows int64.
	ErrNumberOverflow = errors.New("httplex: number overflows int64")
)

// isSpace reports whether c is ASCII whitespace as it may surround header values.
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// Trim returns b with leading and trailing ASCII whitespace removed.
// The result aliases b; no allocation occurs.
func Trim(b []byte) []byte {
	l := 0
	for l < len(b) && isSpace(b[l]) {
		l++
	}
	r := len(b)
	for r > l && isSpace(b[r-1]) {
		r--
	}
	return b[l:r]
}

// TrimString returns s with leading and trailing ASCII whitespace removed.
func TrimString(s string) string {
	l := 0
	for l < len(s) && isSpace(s[l]) {
		l++
	}
	r := len(s)
	for r > l && isSpace(s[r-1]) {
		r--
	}
	return s[l:r]
}

// ToLower returns s with ASCII uppercase letters lowered.
// It allocates only when s actually contains an uppercase letter.
func ToLower(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			return lowerCopy(s, i)
		}
	}
	return s
}

// lowerCopy lowers s starting from the first known-uppercase index.
func lowerCopy(s string, from int) string {
	b := []byte(s)
	for i := from; i < len(b); i++ {
		if c := b[i]; c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// ValidHeaderName reports whether s is a well-formed header field name:
// non-empty ASCII letters, digits, and hyphens.
func ValidHeaderName(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	return true
}

// ValidToken reports whether s is usable as a start-line token:
// non-empty, no whitespace, no control bytes.
func ValidToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; c <= ' ' || c == 0x7f {
			return false
		}
	}
	return true
}

// ParseNonNegative parses s as a non-negative base-10 integer.
// Unlike strconv.ParseInt it rejects signs, whitespace, and underscores,
// matching what a length field on the wire may contain.
func ParseNonNegative(s string) (int64, error) {
	if len(s) == 0 {
		return 0, ErrEmptyNumber
	}
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, ErrNonDigit
		}
		d := int64(c - '0')
		if n > (1<<63-1-d)/10 {
			return 0, ErrNumberOverflow
		}
		n = n*10 + d
	}
	return n, nil
}
