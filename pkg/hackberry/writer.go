package hackberry

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/blockberries/hackberry/internal/httplex"
)

// FrameWriter serializes Messages back to wire bytes: start line, header
// lines, blank line, body. Header names are written lowercased and in sorted
// order so output is deterministic, and content-length is forced to the
// actual body length so serialized frames always satisfy the frame invariant.
//
// FrameWriter latches the first error; later writes become no-ops.
// Writers can be reused with Reset to reduce allocations.
type FrameWriter struct {
	buf  []byte
	opts Options
	err  error
}

// headerLine is one name/value pair staged for emission.
type headerLine struct {
	name  string
	value string
}

// frameWriterPool provides pooled writers for reduced allocations.
var frameWriterPool = sync.Pool{
	New: func() any {
		return &FrameWriter{
			buf:  make([]byte, 0, 256),
			opts: DefaultOptions,
		}
	},
}

// NewFrameWriter creates a FrameWriter with default options.
func NewFrameWriter() *FrameWriter {
	return &FrameWriter{
		buf:  make([]byte, 0, 256),
		opts: DefaultOptions,
	}
}

// NewFrameWriterWithOptions creates a FrameWriter with the specified options.
func NewFrameWriterWithOptions(opts Options) *FrameWriter {
	return &FrameWriter{
		buf:  make([]byte, 0, 256),
		opts: opts,
	}
}

// GetFrameWriter gets a FrameWriter from the pool.
// The writer should be returned with PutFrameWriter when done.
func GetFrameWriter() *FrameWriter {
	w := frameWriterPool.Get().(*FrameWriter)
	w.Reset()
	return w
}

// PutFrameWriter returns a FrameWriter to the pool.
// The writer must not be used after calling this.
func PutFrameWriter(w *FrameWriter) {
	if w == nil {
		return
	}
	// Don't pool large buffers to avoid memory bloat
	if cap(w.buf) > 64*1024 {
		return
	}
	w.Reset()
	frameWriterPool.Put(w)
}

// Reset clears the writer for reuse.
func (w *FrameWriter) Reset() {
	w.buf = w.buf[:0]
	w.err = nil
}

// Err returns any error that occurred during writing.
func (w *FrameWriter) Err() error {
	return w.err
}

// setError records the first error.
func (w *FrameWriter) setError(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Bytes returns the serialized frames and any latched error.
// The slice aliases the writer's internal buffer.
func (w *FrameWriter) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// WriteFrame appends the wire encoding of m to the writer.
// Multiple frames may be written back to back for a pipelined stream.
func (w *FrameWriter) WriteFrame(m *Message) {
	if w.err != nil {
		return
	}
	if !httplex.ValidToken(m.Method) || !httplex.ValidToken(m.Target) || !httplex.ValidToken(m.Proto) {
		w.setError(NewParseError("start-line token "+strconv.Quote(m.StartLine()), ErrMalformedStartLine))
		return
	}
	if max := w.opts.Limits.MaxBodyBytes; max > 0 && int64(len(m.Body)) > max {
		w.setError(NewParseError("body exceeds limit", ErrBodyTooLarge))
		return
	}

	// Carry values from the range pair: keys in a literal Header map may not
	// be lowercased yet, so a Get on the lowered name could miss.
	lines := make([]headerLine, 0, len(m.Header))
	seen := make(map[string]bool, len(m.Header))
	hasContentLength := false
	for name, value := range m.Header {
		lower := httplex.ToLower(httplex.TrimString(name))
		if lower == "" || strings.ContainsAny(lower, "\r\n:") {
			w.setError(NewParseError("header name "+strconv.Quote(name), ErrMalformedHeader))
			return
		}
		if w.opts.StrictHeaderNames && !httplex.ValidHeaderName(lower) {
			w.setError(NewParseError("header name "+strconv.Quote(name), ErrInvalidHeaderName))
			return
		}
		if lower == "content-length" {
			hasContentLength = true
			continue // rewritten from the actual body length below
		}
		if seen[lower] {
			w.setError(NewParseError("duplicate header name "+strconv.Quote(lower), ErrMalformedHeader))
			return
		}
		seen[lower] = true
		lines = append(lines, headerLine{name: lower, value: httplex.TrimString(value)})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].name < lines[j].name })

	w.buf = append(w.buf, m.Method...)
	w.buf = append(w.buf, ' ')
	w.buf = append(w.buf, m.Target...)
	w.buf = append(w.buf, ' ')
	w.buf = append(w.buf, m.Proto...)
	w.buf = append(w.buf, httplex.CRLF...)

	for _, hl := range lines {
		if strings.ContainsAny(hl.value, "\r\n") {
			w.setError(NewParseError("header value for "+hl.name, ErrMalformedHeader))
			return
		}
		w.buf = append(w.buf, hl.name...)
		w.buf = append(w.buf, ": "...)
		w.buf = append(w.buf, hl.value...)
		w.buf = append(w.buf, httplex.CRLF...)
	}

	if len(m.Body) > 0 || hasContentLength {
		w.buf = append(w.buf, "content-length: "...)
		w.buf = strconv.AppendInt(w.buf, int64(len(m.Body)), 10)
		w.buf = append(w.buf, httplex.CRLF...)
	}

	w.buf = append(w.buf, httplex.CRLF...)
	w.buf = append(w.buf, m.Body...)
}

// EncodeFrame serializes a single Message with default options.
// The returned slice is owned by the caller.
func EncodeFrame(m *Message) ([]byte, error) {
	return EncodeFrameWithOptions(m, DefaultOptions)
}

// EncodeFrameWithOptions serializes a single Message with options.
func EncodeFrameWithOptions(m *Message, opts Options) ([]byte, error) {
	w := NewFrameWriterWithOptions(opts)
	w.WriteFrame(m)
	b, err := w.Bytes()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
