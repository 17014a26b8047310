package hackberry

import (
	"bytes"

	"github.com/blockberries/hackberry/internal/httplex"
)

var (
	crlf             = []byte(httplex.CRLF)
	headerTerminator = []byte(httplex.HeaderTerminator)
)

// Parser recognizes one complete frame at a time in a Buffer's unread region.
//
// The parser holds no partial-parse state between calls: all progress lives
// in the buffer's read cursor, and the frame is re-derived from the unread
// bytes on every attempt. Repeated scanning costs a little CPU and buys a
// contract that is safe to retry after any partial append, with no resume
// point to invalidate.
//
// A Parser is stateless and may be shared, but each Buffer must be confined
// to one goroutine at a time.
type Parser struct {
	opts Options
}

// NewParser creates a Parser with default options.
func NewParser() *Parser {
	return &Parser{opts: DefaultOptions}
}

// NewParserWithOptions creates a Parser with the specified options.
func NewParserWithOptions(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Options returns the parser's options.
func (p *Parser) Options() Options {
	return p.opts
}

// TryParse attempts to recognize one complete frame in buf's unread region.
//
// On success it returns the Message and advances buf's read cursor by exactly
// the frame length, leaving any bytes of a following frame unread. When the
// frame is not fully buffered yet it returns ErrNeedMoreData and consumes
// nothing. Malformed frames and exceeded limits return discriminated errors;
// see IsIncomplete, IsMalformed, and IsLimitExceeded.
func (p *Parser) TryParse(buf *Buffer) (*Message, error) {
	idx, ok := buf.Find(headerTerminator)
	if !ok {
		// Without a terminator the header block is still open. If it has
		// already outgrown the limit it can never become valid.
		if max := p.opts.Limits.MaxHeaderBytes; max > 0 && buf.ReadableBytes() > max {
			return nil, NewParseError("header block exceeds limit before terminator", ErrHeaderTooLarge)
		}
		return nil, ErrNeedMoreData
	}

	headLen := idx + len(headerTerminator)
	if max := p.opts.Limits.MaxHeaderBytes; max > 0 && headLen > max {
		return nil, NewParseError("header block exceeds limit", ErrHeaderTooLarge)
	}

	msg, err := p.parseHead(buf.Peek(headLen))
	if err != nil {
		return nil, err
	}

	var bodyLen int64
	if v, ok := msg.Header["content-length"]; ok {
		n, perr := httplex.ParseNonNegative(v)
		if perr != nil {
			return nil, NewParseError("content-length "+v, ErrInvalidContentLength)
		}
		bodyLen = n
	}
	if max := p.opts.Limits.MaxBodyBytes; max > 0 && bodyLen > max {
		// Rejected before the buffer is ever asked to hold the body.
		return nil, NewParseError("declared content-length exceeds limit", ErrBodyTooLarge)
	}

	total := headLen + int(bodyLen)
	if buf.ReadableBytes() < total {
		return nil, ErrNeedMoreData
	}

	if bodyLen > 0 {
		frame := buf.Peek(total)
		msg.Body = append([]byte(nil), frame[headLen:]...)
	}
	buf.AdvanceRead(total)
	return msg, nil
}

// parseHead parses the header block (start line, header lines, terminator).
// head includes the terminating blank line.
func (p *Parser) parseHead(head []byte) (*Message, error) {
	lineEnd := bytes.Index(head, crlf)
	msg, err := p.parseStartLine(head[:lineEnd])
	if err != nil {
		return nil, err
	}

	pos := lineEnd + len(crlf)
	line := 2
	for pos < len(head) {
		next := bytes.Index(head[pos:], crlf)
		if next == 0 {
			break // blank line: end of headers
		}
		if err := p.parseHeaderLine(msg, head[pos:pos+next], line, pos); err != nil {
			return nil, err
		}
		// Count lines, not distinct names: duplicates collapse in the map
		// but still cost a line each on the wire.
		if max := p.opts.Limits.MaxHeaderCount; max > 0 && line-1 > max {
			return nil, NewParseErrorAt(line, pos, "header line count exceeds limit", ErrTooManyHeaders)
		}
		pos += next + len(crlf)
		line++
	}
	return msg, nil
}

// parseStartLine splits the start line into its three space-separated tokens.
func (p *Parser) parseStartLine(line []byte) (*Message, error) {
	sp1 := bytes.IndexByte(line, ' ')
	if sp1 < 0 {
		return nil, NewParseErrorAt(1, 0, "start line needs three tokens", ErrMalformedStartLine)
	}
	sp2 := bytes.IndexByte(line[sp1+1:], ' ')
	if sp2 < 0 {
		return nil, NewParseErrorAt(1, 0, "start line needs three tokens", ErrMalformedStartLine)
	}
	sp2 += sp1 + 1

	method := string(line[:sp1])
	target := string(line[sp1+1 : sp2])
	proto := string(line[sp2+1:])
	if !httplex.ValidToken(method) || !httplex.ValidToken(target) || !httplex.ValidToken(proto) {
		return nil, NewParseErrorAt(1, 0, "empty or invalid start-line token", ErrMalformedStartLine)
	}

	return &Message{
		Method: method,
		Target: target,
		Proto:  proto,
		Header: make(Header),
	}, nil
}

// parseHeaderLine parses one "name: value" line into msg.Header.
func (p *Parser) parseHeaderLine(msg *Message, line []byte, lineNum, offset int) error {
	colon := bytes.IndexByte(line, ':')
	if colon < 0 {
		return NewParseErrorAt(lineNum, offset, "header line missing colon", ErrMalformedHeader)
	}

	name := httplex.ToLower(string(httplex.Trim(line[:colon])))
	if name == "" {
		return NewParseErrorAt(lineNum, offset, "empty header name", ErrMalformedHeader)
	}
	if p.opts.StrictHeaderNames && !httplex.ValidHeaderName(name) {
		return NewParseErrorAt(lineNum, offset, "header name "+name, ErrInvalidHeaderName)
	}

	msg.Header[name] = string(httplex.Trim(line[colon+1:]))
	return nil
}

// ParseBytes parses a single frame from data without external buffering.
// It returns the Message, the number of bytes consumed, and any error.
// This is a convenience for callers that already hold the full frame.
func ParseBytes(data []byte) (*Message, int, error) {
	return ParseBytesWithOptions(data, DefaultOptions)
}

// ParseBytesWithOptions parses a single frame from data with options.
func ParseBytesWithOptions(data []byte, opts Options) (*Message, int, error) {
	buf := NewBuffer(len(data))
	defer buf.Release()
	buf.Append(data)

	before := buf.ReadableBytes()
	msg, err := NewParserWithOptions(opts).TryParse(buf)
	if err != nil {
		return nil, 0, err
	}
	return msg, before - buf.ReadableBytes(), nil
}
