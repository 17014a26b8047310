package hackberry

import (
	"github.com/blockberries/hackberry/internal/httplex"
)

// Header maps header field names to values. Names are stored lowercased so
// lookups are case-insensitive per the wire convention. When the same name
// appears on multiple lines, the last value wins.
type Header map[string]string

// Get returns the value for name, looked up case-insensitively.
func (h Header) Get(name string) string {
	return h[httplex.ToLower(name)]
}

// Has reports whether name is present, looked up case-insensitively.
func (h Header) Has(name string) bool {
	_, ok := h[httplex.ToLower(name)]
	return ok
}

// Set sets the value for name, normalizing the name to lowercase.
func (h Header) Set(name, value string) {
	h[httplex.ToLower(name)] = value
}

// Del removes name, looked up case-insensitively.
func (h Header) Del(name string) {
	delete(h, httplex.ToLower(name))
}

// Clone returns a copy of h, or nil if h is nil.
func (h Header) Clone() Header {
	if h == nil {
		return nil
	}
	c := make(Header, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}

// Message is one complete parsed frame: the three start-line tokens, the
// header fields, and the raw body bytes.
//
// A Message is constructed atomically by one successful parse call and is
// owned by the caller; the parser retains no reference to it.
type Message struct {
	// Method is the first start-line token (e.g. "GET").
	Method string

	// Target is the second start-line token (e.g. "/a/b?q=1").
	Target string

	// Proto is the third start-line token (e.g. "HTTP/1.1").
	Proto string

	// Header holds the header fields with lowercased names.
	Header Header

	// Body holds the raw body bytes. Its length equals the declared
	// content-length when that header is present.
	Body []byte
}

// NewMessage creates a Message with an empty header map.
func NewMessage(method, target, proto string) *Message {
	return &Message{
		Method: method,
		Target: target,
		Proto:  proto,
		Header: make(Header),
	}
}

// StartLine returns the start line without its trailing CRLF.
func (m *Message) StartLine() string {
	return m.Method + " " + m.Target + " " + m.Proto
}

// ContentLength returns the declared content-length and whether the header
// is present. The value is only meaningful on a parsed Message, where it is
// guaranteed to equal len(Body).
func (m *Message) ContentLength() (int64, bool) {
	v, ok := m.Header["content-length"]
	if !ok {
		return 0, false
	}
	n, err := httplex.ParseNonNegative(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
