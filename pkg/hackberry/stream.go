package hackberry

import (
	"errors"
	"io"
)

// StreamParser pulls bytes from an io.Reader into a Buffer and yields one
// complete frame per call to Next. It places no requirement on how the
// reader fragments the stream; frames are recognized correctly whether they
// arrive a byte at a time or several concatenated in one read.
//
// StreamParser is safe for use from a single goroutine,
// but not for use from multiple goroutines.
type StreamParser struct {
	r       io.Reader
	buf     *Buffer
	parser  *Parser
	scratch []byte
	err     error
}

// NewStreamParser creates a StreamParser that reads from r.
// The default read chunk size is 4096 bytes.
func NewStreamParser(r io.Reader) *StreamParser {
	return NewStreamParserSize(r, 4096)
}

// NewStreamParserSize creates a StreamParser with a specified read chunk size.
func NewStreamParserSize(r io.Reader, chunkSize int) *StreamParser {
	if chunkSize <= 0 {
		chunkSize = 4096
	}
	return &StreamParser{
		r:       r,
		buf:     NewBuffer(chunkSize),
		parser:  NewParser(),
		scratch: make([]byte, chunkSize),
	}
}

// NewStreamParserWithOptions creates a StreamParser with parser options and
// the default read chunk size.
func NewStreamParserWithOptions(r io.Reader, opts Options) *StreamParser {
	return NewStreamParserSizeWithOptions(r, 4096, opts)
}

// NewStreamParserSizeWithOptions creates a StreamParser with both parser
// options and a read chunk size.
func NewStreamParserSizeWithOptions(r io.Reader, chunkSize int, opts Options) *StreamParser {
	sp := NewStreamParserSize(r, chunkSize)
	sp.parser = NewParserWithOptions(opts)
	return sp
}

// Buffered returns the number of unread bytes held in the internal buffer.
func (sp *StreamParser) Buffered() int {
	return sp.buf.ReadableBytes()
}

// Err returns the first terminal error encountered by Next, if any.
// io.EOF on a frame boundary is not recorded as an error.
func (sp *StreamParser) Err() error {
	return sp.err
}

// Release returns the internal buffer's storage to the pool.
// The StreamParser must not be used afterwards.
func (sp *StreamParser) Release() {
	sp.buf.Release()
}

// Next returns the next complete frame from the stream.
//
// It returns io.EOF when the stream ends exactly on a frame boundary and
// ErrUnexpectedEOF when it ends mid-frame. Any other parse or read error is
// terminal: the stream position is no longer trustworthy after a malformed
// frame, so the caller should drop the connection.
func (sp *StreamParser) Next() (*Message, error) {
	if sp.err != nil {
		return nil, sp.err
	}
	for {
		msg, err := sp.parser.TryParse(sp.buf)
		if err == nil {
			return msg, nil
		}
		if !errors.Is(err, ErrNeedMoreData) {
			sp.err = err
			return nil, err
		}

		n, rerr := sp.r.Read(sp.scratch)
		if n > 0 {
			sp.buf.Append(sp.scratch[:n])
			continue
		}
		if rerr == nil {
			continue // zero-byte read without error, retry
		}
		if rerr == io.EOF {
			if sp.buf.ReadableBytes() == 0 {
				return nil, io.EOF
			}
			sp.err = ErrUnexpectedEOF
			return nil, sp.err
		}
		sp.err = rerr
		return nil, sp.err
	}
}

// FrameIterator provides an iterator over the frames of a stream.
//
//	it := hackberry.NewFrameIterator(conn)
//	for it.Next() {
//		handle(it.Message())
//	}
//	if err := it.Err(); err != nil { ... }
type FrameIterator struct {
	sp  *StreamParser
	msg *Message
	err error
}

// NewFrameIterator creates an iterator over the frames read from r.
func NewFrameIterator(r io.Reader) *FrameIterator {
	return &FrameIterator{sp: NewStreamParser(r)}
}

// NewFrameIteratorWithOptions creates an iterator with parser options.
func NewFrameIteratorWithOptions(r io.Reader, opts Options) *FrameIterator {
	return &FrameIterator{sp: NewStreamParserWithOptions(r, opts)}
}

// Next advances to the next frame and returns true if one was read.
// It returns false on clean EOF or error; check Err to distinguish.
func (it *FrameIterator) Next() bool {
	if it.err != nil {
		return false
	}
	msg, err := it.sp.Next()
	if err != nil {
		if err != io.EOF {
			it.err = err
		}
		it.msg = nil
		return false
	}
	it.msg = msg
	return true
}

// Message returns the frame read by the last successful Next.
func (it *FrameIterator) Message() *Message {
	return it.msg
}

// Err returns any error that occurred during iteration.
// A stream that ends on a frame boundary yields a nil Err.
func (it *FrameIterator) Err() error {
	return it.err
}

// Release returns the iterator's buffer storage to the pool.
// The iterator must not be used afterwards.
func (it *FrameIterator) Release() {
	it.sp.Release()
}
